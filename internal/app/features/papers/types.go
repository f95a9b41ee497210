// internal/app/features/papers/types.go
package papers

type paperRequest struct {
	Title    string   `json:"title" validate:"required,min=3,max=300"`
	Abstract string   `json:"abstract" validate:"max=10000"`
	Authors  []string `json:"authors" validate:"dive,min=1,max=100"`
	Venue    string   `json:"venue" validate:"max=300"`
	Year     int      `json:"year" validate:"omitempty,gte=1900,lte=2100"`
}
