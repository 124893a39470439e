// Command translate converts PDFs to English from the command line, without
// the server or the job queue.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pdfbabel/internal/translate"
	"pdfbabel/internal/version"
)

func main() {
	input := flag.String("in", "", "input PDF file or directory of PDFs")
	lang := flag.String("lang", "auto", "source language code (auto to detect)")
	outDir := flag.String("out", "translated_pdfs", "output directory")
	listLangs := flag.Bool("languages", false, "print supported source languages and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("pdfbabel translate v%s\n", version.Version)
		return
	}
	if *listLangs {
		printLanguages()
		return
	}
	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !translate.IsSupportedSource(*lang) {
		log.Fatalf("Unsupported source language: %s (use -languages to list)", *lang)
	}

	_ = godotenv.Load()

	client := translate.NewClient(os.Getenv("TRANSLATE_ENDPOINT"))
	translator := translate.NewTranslator(client, *outDir, 3000, 200*time.Millisecond)
	ctx := context.Background()

	files, err := collectPDFs(*input)
	if err != nil {
		log.Fatal(err)
	}
	if len(files) == 0 {
		log.Fatalf("No PDF files found in %s", *input)
	}

	var failed int
	for _, file := range files {
		fmt.Printf("Translating %s\n", file)
		outputPath, err := translator.TranslateFile(ctx, file, *lang, func(progress int) {
			fmt.Printf("\r  %3d%%", progress)
		})
		fmt.Println()
		if err != nil {
			log.Printf("Failed to translate %s: %v", file, err)
			failed++
			continue
		}
		fmt.Printf("  -> %s\n", outputPath)
	}

	fmt.Printf("Done: %d translated, %d failed\n", len(files)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func collectPDFs(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) == ".pdf" {
			files = append(files, filepath.Join(input, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func printLanguages() {
	names := make([]string, 0, len(translate.SupportedLanguages))
	for name := range translate.SupportedLanguages {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Supported source languages:")
	for _, name := range names {
		fmt.Printf("  %-12s %s\n", name, translate.SupportedLanguages[name])
	}
}
