package entities

type Guest struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type Service struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price Amount `json:"price"`
}
