// ptxcompiler_check compiles a PTX sample with the static nvPTXCompiler library, going through every step of
// the binding (create, compile, retrieve the outputs, destroy), and prints a report.
//
// It exits with 0 if all steps succeed, and 1 otherwise.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomlx/goptxcompiler"
	"github.com/gomlx/goptxcompiler/jit"
	"github.com/gomlx/goptxcompiler/patch"
	"github.com/gomlx/goptxcompiler/ptxcompiler"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagPTX     = flag.String("ptx", "", "PTX file to compile. If empty, a built-in sample kernel is used.")
	flagOptions = flag.String("options", "", "Extra compile options, comma separated (e.g. \"--device-debug,--maxrregcount=32\").")
	flagArch    = flag.String("arch", "sm_75", "GPU architecture passed as --gpu-name.")
	flagMetrics = flag.String("metrics", "", "If set, write the Prometheus metrics to this file after the check.")
	flagEnvHelp = flag.Bool("env_help", false, "Print the environment variables that control the codegen patch and exit.")
	flagPatch   = flag.Bool("patch_check", false, "Also report whether the JIT codegen patch is needed, probing the driver and runtime versions.")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"}).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}).Bold(true)
	logStyle   = lipgloss.NewStyle().Faint(true).PaddingLeft(2)
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *flagEnvHelp {
		help, err := patch.ConfigHelp()
		if err != nil {
			exitWithError(err)
		}
		fmt.Println(help)
		return
	}

	ptx := samplePTX
	if *flagPTX != "" {
		data, err := os.ReadFile(*flagPTX)
		if err != nil {
			exitWithError(errors.Wrapf(err, "failed to read PTX file %q", *flagPTX))
		}
		ptx = string(data)
	}
	options := []string{"--gpu-name=" + *flagArch}
	for _, opt := range strings.Split(*flagOptions, ",") {
		if opt = strings.TrimSpace(opt); opt != "" {
			options = append(options, opt)
		}
	}

	fmt.Println(titleStyle.Render("PTX compiler check"))
	report, err := runCheck(ptx, options)
	fmt.Println(report.Render())
	for _, l := range report.logs {
		fmt.Printf("%s:\n%s\n", l.name, logStyle.Render(l.content))
	}
	if err != nil {
		exitWithError(err)
	}

	if *flagPatch {
		if err := patchCheck(); err != nil {
			exitWithError(err)
		}
	}
	if *flagMetrics != "" {
		if err := goptxcompiler.WriteMetrics(*flagMetrics); err != nil {
			exitWithError(err)
		}
	}
	fmt.Println(okStyle.Render("OK"))
}

// patchCheck prints the patch decision for a fresh codegen.
func patchCheck() error {
	codegen := jit.NewCodegen("ptxcompiler_check")
	patched, err := goptxcompiler.PatchCodegenIfNeeded(codegen)
	if err != nil {
		return err
	}
	decision := goptxcompiler.DefaultController().Decide()
	fmt.Printf("Codegen patch: decision=%s, applied=%v\n", decision, patched)
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, errStyle.Render("FAILED"))
	klog.Errorf("%+v", err)
	klog.Flush()
	os.Exit(1)
}

// runCheck runs create, compile, retrieve and destroy as separate steps, recording each in the report.
func runCheck(ptx string, options []string) (report *checkReport, err error) {
	report = newCheckReport()

	v, err := ptxcompiler.GetVersion()
	if report.Step("version", v.String(), err) {
		return report, err
	}

	c, err := ptxcompiler.NewFromString(ptx)
	if report.Step("create", humanBytes(len(ptx))+" of PTX", err) {
		return report, err
	}
	destroyed := false
	defer func() {
		if !destroyed {
			_ = c.Destroy()
		}
	}()

	compileErr := c.Compile(options...)
	report.Step("compile", strings.Join(options, " "), compileErr)
	errorLog, err := c.ErrorLog()
	if err == nil && errorLog != "" {
		report.Log("error log", errorLog)
	}
	if compileErr != nil {
		return report, compileErr
	}

	infoLog, err := c.InfoLog()
	if report.Step("info log", humanBytes(len(infoLog)), err) {
		return report, err
	}
	if infoLog != "" {
		report.Log("info log", infoLog)
	}

	program, err := c.CompiledProgram()
	if err == nil && !strings.HasPrefix(string(program), "\x7fELF") {
		err = errors.Errorf("compiled program of %d bytes is not an ELF image", len(program))
	}
	if report.Step("compiled program", humanBytes(len(program)), err) {
		return report, err
	}

	destroyed = true
	if report.Step("destroy", fmt.Sprintf("%d compilers alive", ptxcompiler.CompilersAlive()), c.Destroy()) {
		return report, errors.New("destroy failed")
	}

	cubin, _, err := goptxcompiler.CompilePTX(ptx, options)
	if report.Step("CompilePTX", humanBytes(len(cubin)), err) {
		return report, err
	}
	return report, nil
}
