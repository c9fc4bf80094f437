package indexer

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"jiraiya/sources/platform"
	"jiraiya/sources/vectorstore"
)

// extractGo parses a file with the standard AST. Type declarations play the
// role of classes, every top level function is collected and methods carry
// their receiver type as parent.
func extractGo(file SourceFile, src []byte, repo string) ([]vectorstore.CodeData, error) {
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, file.Path, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var data []vectorstore.CodeData

	for _, decl := range parsed.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				// Grouped declarations are sliced per spec so every type in
				// a type ( ... ) block becomes its own document.
				node := ast.Node(d)
				doc := d.Doc
				if d.Lparen.IsValid() {
					node = typeSpec
					doc = typeSpec.Doc
				}

				data = append(data, vectorstore.CodeData{
					Type:       platform.DocumentKindCode,
					Repo:       repo,
					FilePath:   file.RelPath,
					Name:       typeSpec.Name.Name,
					SourceCode: sliceSource(fset, src, node, doc),
					Docstring:  docText(doc),
				})
			}
		case *ast.FuncDecl:
			data = append(data, vectorstore.CodeData{
				Type:       platform.DocumentKindCode,
				Repo:       repo,
				FilePath:   file.RelPath,
				Name:       d.Name.Name,
				SourceCode: sliceSource(fset, src, d, d.Doc),
				Docstring:  docText(d.Doc),
				ParentName: receiverName(d),
			})
		}
	}

	return data, nil
}

func sliceSource(fset *token.FileSet, src []byte, node ast.Node, doc *ast.CommentGroup) string {
	start := node.Pos()
	if doc != nil && doc.Pos() < start {
		start = doc.Pos()
	}
	return string(src[fset.Position(start).Offset:fset.Position(node.End()).Offset])
}

func docText(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

func receiverName(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}
	return baseTypeName(decl.Recv.List[0].Type)
}

func baseTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return baseTypeName(t.X)
	case *ast.IndexExpr:
		return baseTypeName(t.X)
	case *ast.IndexListExpr:
		return baseTypeName(t.X)
	}
	return ""
}
