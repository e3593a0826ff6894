package core

// context.go

// CtxKey — тип ключей для context.Context (чтобы избежать коллизий строк)
type CtxKey string

const (
	// CtxNonce — ключ для CSP nonce, выданного приложением (сценарий /nonce-nginx в режиме standalone)
	CtxNonce CtxKey = "nonce"
)
