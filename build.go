//go:build ignore

// build.go - Basket Pulse build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, dashboard, report, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

var (
	distDir = "dist"

	// key = directory under cmd/, value = output binary name
	executables = map[string]string{
		"dashboard": "basket-dashboard",
		"report":    "basket-report",
	}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	switch *target {
	case "all":
		for _, name := range []string{"dashboard", "report"} {
			buildExecutable(name, *verbose)
		}
	case "dashboard", "report":
		buildExecutable(*target, *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	default:
		printError(fmt.Sprintf("Unknown target: %s", *target))
		flag.Usage()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "       Basket Pulse - Build System         " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func buildExecutable(name string, verbose bool) {
	output := executables[name]
	if runtime.GOOS == "windows" {
		output += ".exe"
	}
	output = filepath.Join(distDir, output)

	printInfo(fmt.Sprintf("Building %s -> %s", name, output))

	if err := os.MkdirAll(distDir, 0o755); err != nil {
		printError(fmt.Sprintf("Failed to create %s: %v", distDir, err))
		os.Exit(1)
	}

	args := []string{"build", "-trimpath", "-ldflags", "-s -w", "-o", output}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./cmd/"+name)

	if err := run("go", args...); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Built %s", output))
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")

	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	if err := run("go", args...); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean %s: %v", distDir, err))
		os.Exit(1)
	}
	printSuccess("Build artifacts cleaned")
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
