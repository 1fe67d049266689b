// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package manifest

import (
	"bufio"
	"bytes"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const unknown = "unknown"

// osRelease returns the marketing name and version of the running
// operating system.
func osRelease() (string, string) {
	switch runtime.GOOS {
	case "linux":
		return linuxRelease()
	case "darwin":
		return darwinRelease()
	case "windows":
		output, err := exec.Command("cmd", "/c", "ver").Output()
		if err != nil {
			return "Windows", unknown
		}
		return "Windows", strings.TrimSpace(string(output))
	}
	return unknown, unknown
}

// linuxRelease parses /etc/os-release.
func linuxRelease() (string, string) {
	f, err := os.Open("/etc/os-release")
	if err != nil {
		return unknown, unknown
	}
	defer f.Close()

	name, version := unknown, unknown
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if v, ok := strings.CutPrefix(scanner.Text(), "NAME="); ok {
			name = strings.Trim(v, `"`)
		}
		if v, ok := strings.CutPrefix(scanner.Text(), "VERSION="); ok {
			version = strings.Trim(v, `"`)
		}
	}
	return name, version
}

func darwinRelease() (string, string) {
	output, err := exec.Command("sw_vers").Output()
	if err != nil {
		return "macOS", unknown
	}

	name, version := "macOS", unknown
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if v, ok := strings.CutPrefix(line, "ProductName:"); ok {
			name = strings.TrimSpace(v)
		}
		if v, ok := strings.CutPrefix(line, "ProductVersion:"); ok {
			version = strings.TrimSpace(v)
		}
	}
	return name, version
}
