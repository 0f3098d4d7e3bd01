// Package thread turns a post's flat, newest-first comment list into the
// two-level view rendered under a post.
package thread

import "github.com/anonto42/quill/backend/internal/models"

// VisibleTopLevel is how many top-level comments are shown before "show all".
const VisibleTopLevel = 3

// Partitioned is a comment list split into top-level comments and reply groups.
// Both keep the input order.
type Partitioned struct {
	TopLevel        []models.Comment
	RepliesByParent map[uint][]models.Comment
}

// Partition splits comments by parent reference. Replies are grouped under
// their ParentID even when that parent is absent from the list.
func Partition(comments []models.Comment) Partitioned {
	p := Partitioned{
		TopLevel:        []models.Comment{},
		RepliesByParent: make(map[uint][]models.Comment),
	}
	for _, c := range comments {
		if c.ParentID == nil {
			p.TopLevel = append(p.TopLevel, c)
			continue
		}
		p.RepliesByParent[*c.ParentID] = append(p.RepliesByParent[*c.ParentID], c)
	}
	return p
}

// Node is one rendered top-level comment. Replies start collapsed on the
// client behind a "view N replies" toggle; ReplyCount is N.
type Node struct {
	Comment    models.Comment   `json:"comment"`
	ReplyCount int              `json:"reply_count"`
	Replies    []models.Comment `json:"replies"`
}

// View is the assembled thread of one post.
type View struct {
	Comments      []Node   `json:"comments"`
	TotalTopLevel int      `json:"total_top_level"`
	Hidden        int      `json:"hidden"`
	AuthorIDs     []string `json:"author_ids"`
}

// Assemble partitions comments and applies the disclosure policy: only the
// first VisibleTopLevel top-level comments are rendered unless showAll is set.
// AuthorIDs holds every author of a rendered comment or reply, deduplicated
// in first-seen order. The result depends only on the arguments.
func Assemble(comments []models.Comment, showAll bool) View {
	p := Partition(comments)

	visible := p.TopLevel
	if !showAll && len(visible) > VisibleTopLevel {
		visible = visible[:VisibleTopLevel]
	}

	view := View{
		Comments:      make([]Node, 0, len(visible)),
		TotalTopLevel: len(p.TopLevel),
		Hidden:        len(p.TopLevel) - len(visible),
		AuthorIDs:     []string{},
	}

	seen := make(map[string]struct{})
	addAuthor := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		view.AuthorIDs = append(view.AuthorIDs, id)
	}

	for _, c := range visible {
		replies := p.RepliesByParent[c.ID]
		if replies == nil {
			replies = []models.Comment{}
		}
		addAuthor(c.AuthorID)
		for _, r := range replies {
			addAuthor(r.AuthorID)
		}
		view.Comments = append(view.Comments, Node{
			Comment:    c,
			ReplyCount: len(replies),
			Replies:    replies,
		})
	}
	return view
}
