package handlers

import (
	"github.com/vitrine-dev/vitrine/internal/auth"
	"github.com/vitrine-dev/vitrine/internal/records"
	"gorm.io/gorm"
)

// Handler holds the injected dependencies all HTTP handlers share.
type Handler struct {
	conn    *gorm.DB
	records *records.Store
	tokens  *auth.Manager
}

func New(conn *gorm.DB, store *records.Store, tokens *auth.Manager) *Handler {
	return &Handler{conn: conn, records: store, tokens: tokens}
}
