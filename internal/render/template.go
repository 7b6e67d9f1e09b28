package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"inkwell/internal/domain/content"
)

type TemplateRenderer struct {
	tpl *template.Template
}

func NewTemplateRenderer(themeDir, themeName string) (*TemplateRenderer, error) {
	pattern := filepath.Join(themeDir, themeName, "templates", "*.tmpl")
	tpl, err := template.New("").Funcs(templateFuncs()).ParseGlob(pattern)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t interface{}, layout string) string {
			switch v := t.(type) {
			case nil:
				return ""
			case string:
				return v
			case interface{ Format(string) string }:
				return v.Format(layout)
			default:
				return ""
			}
		},
		"nowYear": func() int {
			return time.Now().Year()
		},
		"postURL": func(m content.PageMeta) string {
			if m.SaveAs != "" {
				return "/" + m.SaveAs
			}
			return fmt.Sprintf("/posts/%s/", m.Slug)
		},
		"slugify": content.Slugify,
		"add":     func(a, b int) int { return a + b },
		"sub":     func(a, b int) int { return a - b },
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) RenderList(ctx context.Context, page ListPage) ([]byte, error) {
	return r.exec("list.tmpl", page)
}

func (r *TemplateRenderer) RenderArchives(ctx context.Context, page ArchivesPage) ([]byte, error) {
	return r.exec("archives.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
