package dto

type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
	IPAddress   string `json:"-"`
	UserAgent   string `json:"-"`
}
