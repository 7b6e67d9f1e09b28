package render

import "inkwell/internal/domain/content"

// BuildOutline nests a flat, document-ordered heading sequence into a tree of
// outline tokens. A heading becomes a child of the nearest preceding heading
// with a smaller level; everything else starts a new root. No headings yields
// an empty (non-nil) sequence.
func BuildOutline(headings []content.Heading) []*content.TocToken {
	roots := make([]*content.TocToken, 0, len(headings))
	var stack []*content.TocToken

	for _, h := range headings {
		tok := &content.TocToken{
			Name:  h.Text,
			ID:    h.ID,
			Level: h.Level,
		}
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, tok)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, tok)
		}
		stack = append(stack, tok)
	}
	return roots
}
