package models

// LikeToggle is the outcome of toggling a like. Count is the cardinality of
// the like set as committed by the toggle.
type LikeToggle struct {
	PostID string `json:"post_id"`
	Liked  bool   `json:"liked"`
	Count  int    `json:"likes"`
}
