package cli

import (
	"errors"

	"github.com/dmitrijs2005/qfvjug/internal/common"
)

// userMessage turns an error into the text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Ungültige Anmeldedaten."
	case errors.Is(err, common.ErrUnauthorized):
		return "Keine Berechtigung. Bitte zuerst anmelden."
	case errors.Is(err, common.ErrVipRequired):
		return "Dieser Download ist nur für VIP-Mitglieder."
	case errors.Is(err, common.ErrNotFound):
		return "Nicht gefunden."
	case errors.Is(err, common.ErrValidation):
		return err.Error()
	case errors.Is(err, common.ErrPersistence):
		return "Speichern fehlgeschlagen. Bitte später erneut versuchen."
	default:
		return err.Error()
	}
}
