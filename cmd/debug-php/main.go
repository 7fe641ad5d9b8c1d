package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/mvp-joe/php-reflect/internal/lexer"
	"github.com/mvp-joe/php-reflect/internal/model"
	"github.com/mvp-joe/php-reflect/internal/scanner"
)

func main() {
	path := "testdata/php/shop.php"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	toks, err := lexer.Tokenize(src)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== TOKENS ===")
	fmt.Printf("Count: %d\n", len(toks))
	for _, t := range toks {
		fmt.Printf("  %5d  line %-4d %-28s %s\n", t.Index, t.Line, t.Kind, strconv.Quote(t.Text))
	}

	reg := model.NewRegistry()
	if err := scanner.NewParser(reg).Parse(path, toks); err != nil {
		log.Fatal(err)
	}

	fmt.Println("\n=== TYPES ===")
	for _, m := range []map[string]*model.Class{reg.Classes(), reg.Interfaces(), reg.Traits()} {
		for name, c := range m {
			fmt.Printf("  %s (%s) at lines %d-%d\n", name, c.Kind(), c.StartLine(), c.EndLine())
		}
	}

	fmt.Println("\n=== FUNCTIONS ===")
	for name, f := range reg.Functions() {
		fmt.Printf("  %s (line %d-%d) ccn=%d\n", name, f.StartLine(), f.EndLine(), f.CCN())
	}
}
