package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Lilt - a small expression language that compiles to WebAssembly text

Usage:
    lilt <command> [arguments]

Commands:
    build <file>    Compile a .lilt file to .wat (and .wasm when wat2wasm is installed)
    emit <file>     Compile a .lilt file and print the WebAssembly text
    check <file>    Parse and resolve a .lilt file
    help            Show this help message

Examples:
    lilt build examples/square.lilt
    lilt emit -export main program.lilt
    lilt check myfile.lilt

Use "lilt <command> -h" for more information about a command.
`)
}

func buildCommand(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "Output file path (default: <filename>.wat)")
	export := fs.String("export", "main", "Exported function name")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilt build [-o output] [-export name] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Compile a .lilt file to WebAssembly text\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	outputFile := *output
	if outputFile == "" {
		outputFile = strings.TrimSuffix(filename, ".lilt") + ".wat"
	}

	if *verbose {
		fmt.Printf("Compiling %s to %s...\n", filename, outputFile)
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	text, err := compileProgram(source, *export, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputFile, []byte(text+"\n"), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file %s: %v\n", outputFile, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d bytes)\n", outputFile, len(text)+1)

	// Assemble to bytecode when the external assembler is available.
	if _, err := exec.LookPath("wat2wasm"); err != nil {
		if *verbose {
			fmt.Println("wat2wasm not found; skipping assembly")
		}
		return
	}
	wasmFile := strings.TrimSuffix(outputFile, ".wat") + ".wasm"
	if err := assembleWatFile(outputFile, wasmFile); err != nil {
		fmt.Fprintf(os.Stderr, "Assembly failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", wasmFile)
}

func emitCommand(args []string) {
	fs := flag.NewFlagSet("emit", flag.ExitOnError)
	export := fs.String("export", "main", "Exported function name")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilt emit [-export name] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Compile a .lilt file and print the WebAssembly text\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	text, err := compileProgram(source, *export, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(text)
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilt check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse and resolve a .lilt file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	toks, err := NewLexer(source).Lex()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		os.Exit(1)
	}
	prog, err := Parse(toks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		os.Exit(1)
	}
	if err := Resolve(prog); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		os.Exit(1)
	}
	fmt.Printf("%s: no errors found\n", filename)
	if *verbose {
		fmt.Printf("AST: %s\n", prog.Sexpr())
	}
}

// compileProgram runs the full pipeline: lex, parse, resolve, emit.
func compileProgram(source []byte, exportName string, verbose bool) (string, error) {
	toks, err := NewLexer(source).Lex()
	if err != nil {
		return "", err
	}
	prog, err := Parse(toks)
	if err != nil {
		return "", err
	}
	if err := Resolve(prog); err != nil {
		return "", err
	}
	if verbose {
		fmt.Printf("AST: %s\n", prog.Sexpr())
	}
	return EmitText(prog, exportName), nil
}

// assembleWatFile invokes the external wat2wasm assembler.
func assembleWatFile(watFile, wasmFile string) error {
	cmd := exec.Command("wat2wasm", watFile, "-o", wasmFile)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		buildCommand(args)
	case "emit":
		emitCommand(args)
	case "check":
		checkCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
