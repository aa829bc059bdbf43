/*
 *	Copyright 2024 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package dynlib

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"k8s.io/klog/v2"
)

// CUDAHomeEnv is the environment variable pointing to the CUDA toolkit installation. Its lib64 subdirectory
// is searched first.
const CUDAHomeEnv = "CUDA_HOME"

// DefaultCUDAHome is used when CUDAHomeEnv is not set.
const DefaultCUDAHome = "/usr/local/cuda"

var (
	reLdConfInclude = regexp.MustCompile(`^\s*include\s*(.*)$`)
	reLdConfComment = regexp.MustCompile(`^\s*#`)
	reLdConfPath    = regexp.MustCompile(`^\s*(.+?)\s*$`)
)

// CUDAHome returns the CUDA toolkit directory: $CUDA_HOME if set, otherwise DefaultCUDAHome.
func CUDAHome() string {
	if home := os.Getenv(CUDAHomeEnv); home != "" {
		return home
	}
	return DefaultCUDAHome
}

// SearchPaths returns the directories searched for shared libraries, in order: $CUDA_HOME/lib64,
// the absolute entries of LD_LIBRARY_PATH and the directories listed in /etc/ld.so.conf (includes expanded).
// Duplicates are removed.
func SearchPaths() []string {
	paths := []string{filepath.Join(CUDAHome(), "lib64")}
	for _, ldPath := range strings.Split(os.Getenv("LD_LIBRARY_PATH"), ":") {
		if ldPath == "" || !path.IsAbs(ldPath) {
			// No empty or relative paths.
			continue
		}
		paths = append(paths, ldPath)
	}
	paths = loadLibraryPaths(paths, "/etc/ld.so.conf")
	return uniquePaths(paths)
}

func uniquePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	return slices.DeleteFunc(paths, func(p string) bool {
		p = filepath.Clean(p)
		if seen[p] {
			return true
		}
		seen[p] = true
		return false
	})
}

// loadLibraryPaths appends to paths the directories listed in fileWithIncludes, an ld.so.conf formatted file.
func loadLibraryPaths(paths []string, fileWithIncludes string) []string {
	klog.V(2).Infof("Loading paths for libraries from %q", fileWithIncludes)
	file, err := os.Open(fileWithIncludes)
	if err != nil {
		klog.V(1).Infof("Failed to load paths for libraries from %q: %v", fileWithIncludes, err)
		return paths
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if parts := reLdConfInclude.FindStringSubmatch(line); len(parts) > 0 {
			pattern := parts[1]
			if !filepath.IsAbs(pattern) {
				pattern = filepath.Join(filepath.Dir(fileWithIncludes), pattern)
			}
			klog.V(2).Infof("loadLibraryPaths: include %q", pattern)
			files, err := filepath.Glob(pattern)
			if err != nil {
				klog.Errorf("Failed to load paths for libraries while expanding include entry %q: %v", pattern, err)
				continue
			}
			for _, includeFile := range files {
				paths = loadLibraryPaths(paths, includeFile)
			}

		} else if reLdConfComment.MatchString(line) {
			klog.V(2).Infof("loadLibraryPaths: comment %q", line)

		} else if parts := reLdConfPath.FindStringSubmatch(line); len(parts) > 0 {
			klog.V(2).Infof("loadLibraryPaths: path %q", parts[1])
			paths = append(paths, parts[1])

		} else if strings.TrimSpace(line) != "" {
			klog.V(2).Infof("loadLibraryPaths: cannot parse line %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		klog.Errorf("Error while loading paths for libraries from %q: %v", fileWithIncludes, err)
	}
	return paths
}

// Find returns the first file matching one of the glob patterns (e.g. "libcudart.so*") in the given
// directories. Directories are tried in order, and within a directory patterns are tried in order.
// Matches within one pattern are sorted in reverse, so the highest version suffix comes first.
func Find(dirs []string, patterns ...string) (string, bool) {
	for _, dir := range dirs {
		for _, pattern := range patterns {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				klog.Errorf("Invalid library pattern %q: %v", pattern, err)
				continue
			}
			slices.Sort(matches)
			slices.Reverse(matches)
			for _, m := range matches {
				if info, err := os.Stat(m); err == nil && !info.IsDir() {
					return m, true
				}
			}
		}
	}
	return "", false
}
