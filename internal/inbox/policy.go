package inbox

import (
	"github.com/goserg/clubsite/internal/domain"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

func sameAddress(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return fold.String(a) == fold.String(b)
}

// CanView reports whether viewer may see e. Managers see every email, board
// members only the ones they sent.
func CanView(viewer domain.User, e domain.Email) bool {
	switch viewer.Role.Normalize() {
	case domain.RoleAdmin, domain.RolePresident:
		return true
	case domain.RoleBoard:
		return sameAddress(viewer.Email, e.SenderEmail)
	default:
		return false
	}
}

// CanAct reports whether viewer may approve, reject or delete e.
func CanAct(viewer domain.User, e domain.Email) bool {
	return CanView(viewer, e)
}

func visible(viewer domain.User, emails []domain.Email) []domain.Email {
	out := make([]domain.Email, 0, len(emails))
	for _, e := range emails {
		if CanView(viewer, e) {
			out = append(out, e)
		}
	}
	return out
}
