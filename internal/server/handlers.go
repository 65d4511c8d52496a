// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/woozymasta/dmdoc/format/markdown"
	"github.com/woozymasta/dmdoc/model"
)

// entityItem is one row of the entity list.
type entityItem struct {
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases,omitempty"`
	Doc        string   `json:"doc,omitempty"`
	Keys       []string `json:"keys"`
	Fields     int      `json:"fields"`
	References int      `json:"references"`
}

// definition wraps the wire form of one entity, object or enum.
type definition struct {
	Name       string          `json:"name"`
	Definition json.RawMessage `json:"definition"`
	UsedBy     []usage         `json:"used_by,omitempty"`
}

// usage is one entity field path reaching a shared object.
type usage struct {
	Entity string `json:"entity"`
	Path   string `json:"path"`
}

// referrer lists the references one entity declares toward another.
type referrer struct {
	Entity     string      `json:"entity"`
	References []reference `json:"references"`
}

// reference is one declared reference with its field mapping.
type reference struct {
	Name    string    `json:"name,omitempty"`
	Mapping []mapping `json:"mapping"`
}

// mapping pairs a source path with a destination path.
type mapping struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.validated.Model().ID})
}

func (s *Server) getModel(c *gin.Context) {
	data, err := s.validated.Model().MarshalJSON()
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *Server) listEntities(c *gin.Context) {
	entities := s.validated.Entities()
	out := make([]entityItem, 0, entities.Len())
	for _, entity := range entities.Values() {
		item := entityItem{
			Name:       entity.Name,
			Aliases:    entity.Aliases,
			Doc:        entity.Doc,
			Keys:       []string{},
			Fields:     entity.Fields.Len(),
			References: len(entity.References),
		}

		for _, field := range entity.Fields.Values() {
			if field.IsKey {
				item.Keys = append(item.Keys, field.Name)
			}
		}

		out = append(out, item)
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) getEntity(c *gin.Context) {
	entity, ok := s.lookupEntity(c.Param("name"))
	if !ok {
		notFound(c, "entity", c.Param("name"))
		return
	}

	data, err := entity.MarshalJSON()
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, definition{Name: entity.Name, Definition: data})
}

func (s *Server) getReferencedBy(c *gin.Context) {
	entity, ok := s.lookupEntity(c.Param("name"))
	if !ok {
		notFound(c, "entity", c.Param("name"))
		return
	}

	out := []referrer{}
	for source, references := range s.validated.ReverseReferences(entity.Name).All() {
		item := referrer{Entity: source}
		for _, ref := range references {
			view := reference{Name: ref.Name, Mapping: []mapping{}}
			for _, pair := range ref.Mapping {
				view.Mapping = append(view.Mapping, mapping{Source: pair.Source, Destination: pair.Destination})
			}

			item.References = append(item.References, view)
		}

		out = append(out, item)
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) getObject(c *gin.Context) {
	object, ok := s.validated.Model().Object(c.Param("name"))
	if !ok {
		notFound(c, "object", c.Param("name"))
		return
	}

	data, err := object.MarshalJSON()
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, definition{
		Name:       object.Name,
		Definition: data,
		UsedBy:     usages(s.validated.ObjectUsages(object.Name)),
	})
}

func (s *Server) getEnum(c *gin.Context) {
	enum, ok := s.validated.Model().Enum(c.Param("name"))
	if !ok {
		notFound(c, "enum", c.Param("name"))
		return
	}

	data, err := enum.MarshalJSON()
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, definition{Name: enum.Name, Definition: data})
}

// getDocs renders markdown with the configured options, or with the built-in
// template named in the path.
func (s *Server) getDocs(c *gin.Context) {
	opt := s.opt.Markdown
	if name := c.Param("template"); name != "" {
		opt.Template, opt.TemplateText = name, ""
	}

	text, err := markdown.Render(s.validated, opt)
	if errors.Is(err, markdown.ErrUnknownTemplate) {
		notFound(c, "template", opt.Template)
		return
	}

	if err != nil {
		s.fail(c, err)
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(text))
}

// lookupEntity finds an entity by name, then by alias.
func (s *Server) lookupEntity(name string) (*model.Entity, bool) {
	if entity, ok := s.validated.Model().Entity(name); ok {
		return entity, true
	}

	for _, entity := range s.validated.Entities().Values() {
		if slices.Contains(entity.Aliases, name) {
			return entity, true
		}
	}

	return nil, false
}

// usages converts object usages for JSON output.
func usages(in []model.Usage) []usage {
	out := make([]usage, 0, len(in))
	for _, item := range in {
		out = append(out, usage{Entity: item.Entity, Path: item.Path})
	}

	return out
}

// fail answers 500 and logs err.
func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("request failed", "path", c.Request.URL.Path, "request_id", c.GetString(requestIDKey), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// notFound answers 404 for an unknown name of kind.
func notFound(c *gin.Context, kind, name string) {
	c.JSON(http.StatusNotFound, gin.H{"error": kind + " " + name + " not found"})
}
