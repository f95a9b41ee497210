// internal/app/features/blogs/types.go
package blogs

// blogRequest is the body for both create and full-replace update.
type blogRequest struct {
	Title    string   `json:"title" validate:"required,min=3,max=200"`
	Content  string   `json:"content" validate:"required,min=1"`
	Tags     []string `json:"tags" validate:"max=10,dive,min=1,max=40"`
	CoverURL string   `json:"coverURL" validate:"omitempty,url"`
}
