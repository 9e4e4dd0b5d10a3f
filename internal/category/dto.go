package category

// CategoryResponse is what the expense forms bind their category pickers to.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
