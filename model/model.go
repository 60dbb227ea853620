package model

// Survey is a row of the surveys table, served by the JSON API.
type Survey struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstname"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Suburb    string `json:"suburb"`
	Postcode  string `json:"postcode"`
	Phone     string `json:"phone"`
	Q1        string `json:"q1radio"`
	Q2        string `json:"q2radio"`
	Q3        string `json:"q3radio"`
	Comments  string `json:"comments"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Response is a row of the legacy survey table, written by the public
// form. Rows are append-only: no update or delete path exists.
type Response struct {
	ID      int    `json:"id"`
	FName   string `json:"fname"`
	SName   string `json:"sname"`
	Email   string `json:"email"`
	Date    string `json:"date"`
	Q1      int    `json:"q1"`
	Q2      int    `json:"q2"`
	Q3      int    `json:"q3"`
	Colour  string `json:"colour"`
	Comment string `json:"comment"`
}
