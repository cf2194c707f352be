package auth

type RegisterRequest struct {
	Name     string `json:"name"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Address  string `json:"address"` // Адрес депозитора (пусто - выдается новый)
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
