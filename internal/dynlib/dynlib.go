//go:build linux

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

// Package dynlib loads shared libraries with dlopen and resolves their symbols.
//
// Modified version of https://github.com/coreos/pkg/blob/main/dlopen/dlopen.go, licenced with Apache 2.0 license
// https://github.com/coreos/pkg/blob/main/LICENSE
package dynlib

// #cgo LDFLAGS: -ldl
/*
#include <stdlib.h>
#include <dlfcn.h>
*/
import "C"
import (
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Library is an open handle to a shared library (.so).
type Library struct {
	handle unsafe.Pointer
	Name   string
}

var (
	// loadedLibraries caches the libraries already opened, by name. Protected by muLibraries.
	loadedLibraries = make(map[string]*Library)
	muLibraries     sync.Mutex
)

// Open dlopen's the named library. If name is not a path (no "/"), the dynamic linker's own search rules apply.
//
// Libraries are cached: opening the same name twice returns the same Library.
// It is safe to call from different goroutines.
func Open(name string) (*Library, error) {
	muLibraries.Lock()
	defer muLibraries.Unlock()
	if lib, found := loadedLibraries[name]; found {
		return lib, nil
	}

	nameC := C.CString(name)
	defer C.free(unsafe.Pointer(nameC))
	klog.V(2).Infof("trying to load library %s", name)
	handle := C.dlopen(nameC, C.RTLD_LAZY|C.RTLD_LOCAL)
	if handle == nil {
		msg := C.GoString(C.dlerror())
		return nil, errors.Errorf("failed to dynamically load %q: %s", name, msg)
	}
	klog.V(1).Infof("loaded library %s", name)
	lib := &Library{handle: handle, Name: name}
	loadedLibraries[name] = lib
	return lib, nil
}

// OpenFirst tries each name with Open, then searches the glob patterns in SearchPaths.
// It returns the first library that loads.
func OpenFirst(names []string, patterns []string) (*Library, error) {
	var errs []string
	for _, name := range names {
		lib, err := Open(name)
		if err == nil {
			return lib, nil
		}
		errs = append(errs, err.Error())
	}
	if len(patterns) > 0 {
		dirs := SearchPaths()
		if libPath, found := Find(dirs, patterns...); found {
			lib, err := Open(filepath.Clean(libPath))
			if err == nil {
				return lib, nil
			}
			errs = append(errs, err.Error())
		} else {
			errs = append(errs, "no file matching "+strings.Join(patterns, ", ")+" in "+strings.Join(dirs, ":"))
		}
	}
	return nil, errors.Errorf("failed to load library: %s", strings.Join(errs, "; "))
}

// Symbol takes a symbol name and returns a pointer to the symbol.
func (l *Library) Symbol(symbol string) (unsafe.Pointer, error) {
	sym := C.CString(symbol)
	defer C.free(unsafe.Pointer(sym))

	C.dlerror()
	p := C.dlsym(l.handle, sym)
	e := C.dlerror()
	if e != nil {
		return nil, errors.Errorf("error resolving symbol %q in %s: %s", symbol, l.Name, C.GoString(e))
	}
	if p == nil {
		return nil, errors.Errorf("symbol %q in %s resolved to NULL", symbol, l.Name)
	}
	return p, nil
}

// Close the library and remove it from the cache. Pointers previously returned by Symbol become invalid.
func (l *Library) Close() error {
	muLibraries.Lock()
	defer muLibraries.Unlock()
	if l.handle == nil {
		return nil
	}
	delete(loadedLibraries, l.Name)
	C.dlerror()
	C.dlclose(l.handle)
	l.handle = nil
	e := C.dlerror()
	if e != nil {
		return errors.Errorf("error closing %v: %s", l.Name, C.GoString(e))
	}
	return nil
}
