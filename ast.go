package ded

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const listingLang = "ded"

type CodeBlock struct {
	Lang    string
	Content string
}

func ExtractCodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block CodeBlock
		if fenced.Info != nil {
			block.Lang = string(fenced.Language(source))
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		block.Content = content.String()

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return blocks, nil
}

// ExtractListing returns the contents of the ```ded fenced blocks in a
// markdown document, or the document itself when it has none.
func ExtractListing(source string) (string, error) {
	blocks, err := ExtractCodeBlocks([]byte(source))
	if err != nil {
		return "", err
	}

	var b bytes.Buffer
	found := false
	for _, block := range blocks {
		if block.Lang != listingLang {
			continue
		}
		found = true
		b.WriteString(block.Content)
	}

	if !found {
		return source, nil
	}
	return b.String(), nil
}
