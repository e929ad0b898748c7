package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB (пул или транзакция)
	DBContextKey = contextKey("db")

	// UserIDKey и RoleKey выставляются AuthMiddleware после проверки JWT
	UserIDKey = contextKey("userID")
	RoleKey   = contextKey("role")
)
