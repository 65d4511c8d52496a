// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package gostruct

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
)

// packageIndex holds documentation and table names gathered from syntax.
type packageIndex struct {
	docs       map[types.Object]string
	tableNames map[string]string
	packageDoc string
}

// indexPackage walks pkg syntax for doc comments and TableName methods.
func indexPackage(pkg *packages.Package) packageIndex {
	index := packageIndex{
		docs:       make(map[types.Object]string),
		tableNames: make(map[string]string),
	}

	for _, file := range pkg.Syntax {
		if index.packageDoc == "" {
			index.packageDoc = commentText(file.Doc)
		}

		for _, decl := range file.Decls {
			switch typed := decl.(type) {
			case *ast.GenDecl:
				index.indexGenDecl(pkg.TypesInfo, typed)
			case *ast.FuncDecl:
				if receiver, table := detectTableName(typed); receiver != "" {
					index.tableNames[receiver] = table
				}
			}
		}
	}

	return index
}

// indexGenDecl records docs of types, struct fields and constants.
func (index packageIndex) indexGenDecl(info *types.Info, decl *ast.GenDecl) {
	for _, spec := range decl.Specs {
		switch typed := spec.(type) {
		case *ast.TypeSpec:
			doc := typed.Doc
			if doc == nil && len(decl.Specs) == 1 {
				doc = decl.Doc
			}

			index.record(info, typed.Name, doc, typed.Comment)
			if structType, ok := typed.Type.(*ast.StructType); ok {
				index.indexFields(info, structType)
			}
		case *ast.ValueSpec:
			if decl.Tok != token.CONST {
				continue
			}

			for _, name := range typed.Names {
				index.record(info, name, typed.Doc, typed.Comment)
			}
		}
	}
}

// indexFields records field docs, descending into anonymous struct types.
func (index packageIndex) indexFields(info *types.Info, structType *ast.StructType) {
	if structType.Fields == nil {
		return
	}

	for _, field := range structType.Fields.List {
		for _, name := range field.Names {
			index.record(info, name, field.Doc, field.Comment)
		}

		ast.Inspect(field.Type, func(node ast.Node) bool {
			nested, ok := node.(*ast.StructType)
			if !ok {
				return true
			}

			index.indexFields(info, nested)
			return false
		})
	}
}

// record stores the first non-empty comment for the object defined by name.
func (index packageIndex) record(info *types.Info, name *ast.Ident, groups ...*ast.CommentGroup) {
	if info == nil {
		return
	}

	object := info.Defs[name]
	if object == nil {
		return
	}

	for _, group := range groups {
		if text := commentText(group); text != "" {
			index.docs[object] = text
			return
		}
	}
}

// detectTableName reports the receiver type of func (T) TableName() string
// and its literal result, if the body is a single return of a string literal.
func detectTableName(decl *ast.FuncDecl) (string, string) {
	if decl.Name.Name != "TableName" || decl.Recv == nil || len(decl.Recv.List) == 0 {
		return "", ""
	}

	receiver := ""
	switch typed := decl.Recv.List[0].Type.(type) {
	case *ast.Ident:
		receiver = typed.Name
	case *ast.StarExpr:
		if ident, ok := typed.X.(*ast.Ident); ok {
			receiver = ident.Name
		}
	}

	if receiver == "" || decl.Body == nil || len(decl.Body.List) != 1 {
		return "", ""
	}

	ret, ok := decl.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return "", ""
	}

	literal, ok := ret.Results[0].(*ast.BasicLit)
	if !ok || literal.Kind != token.STRING {
		return "", ""
	}

	table, err := strconv.Unquote(literal.Value)
	if err != nil || strings.TrimSpace(table) == "" {
		return "", ""
	}

	return receiver, table
}

// commentText returns trimmed comment text.
func commentText(group *ast.CommentGroup) string {
	if group == nil {
		return ""
	}

	return strings.TrimSpace(group.Text())
}
