package validator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var displayNames = map[string]string{
	"prenom":                "Prénom",
	"nom":                   "Nom",
	"adresse":               "Adresse",
	"telephone":             "Téléphone",
	"loginTelephone":        "Téléphone",
	"numero_piece_identite": "Numéro de pièce d'identité",
	"photo_recto":           "Photo recto",
	"photo_verso":           "Photo verso",
	"terms":                 "les conditions d'utilisation",
}

var upper = cases.Upper(language.French)

// DisplayName returns the human name of a field used in default messages.
// Unknown fields get underscores replaced by spaces and a capital first letter.
func DisplayName(field string, names map[string]string) string {
	if name, ok := names[field]; ok {
		return name
	}
	if name, ok := displayNames[field]; ok {
		return name
	}
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return upper.String(s[:size]) + s[size:]
}

// DefaultMessage returns the French message reported when rule fails on field.
func DefaultMessage(field string, rule Rule, names map[string]string) string {
	name := DisplayName(field, names)
	switch rule.Name {
	case Required:
		return fmt.Sprintf("Le champ %s est obligatoire.", name)
	case Email:
		return fmt.Sprintf("Le champ %s doit être une adresse email valide.", name)
	case PhoneSenegal:
		return fmt.Sprintf("Le champ %s doit être un numéro de téléphone sénégalais valide.", name)
	case CNISenegal:
		return "Le numéro CNI doit contenir exactement 13 chiffres (format sénégalais)."
	case MinLength:
		return fmt.Sprintf("Le champ %s doit contenir au moins %d caractères.", name, rule.Length)
	case MaxLength:
		return fmt.Sprintf("Le champ %s ne peut pas dépasser %d caractères.", name, rule.Length)
	case AlphaSpaces:
		return fmt.Sprintf("Le champ %s ne peut contenir que des lettres et espaces.", name)
	case AlphaNumeric:
		return fmt.Sprintf("Le champ %s ne peut contenir que des lettres et des chiffres.", name)
	case FileRequired:
		return fmt.Sprintf("Le fichier %s est obligatoire.", name)
	case FileImage:
		return fmt.Sprintf("Le fichier %s doit être une image (JPG, JPEG, PNG).", name)
	case FileMaxSize:
		return fmt.Sprintf("Le fichier %s ne peut pas dépasser %s.", name, FormatFileSize(rule.Size))
	case Accepted:
		return fmt.Sprintf("Vous devez accepter %s.", name)
	case Numeric:
		return fmt.Sprintf("Le champ %s doit être numérique.", name)
	default:
		return fmt.Sprintf("Le champ %s n'est pas valide.", name)
	}
}

// FormatFileSize renders a byte count as "5 MB", "1.5 KB" or "512 bytes".
func FormatFileSize(n int64) string {
	switch {
	case n >= 1<<20:
		return roundOne(float64(n)/(1<<20)) + " MB"
	case n >= 1<<10:
		return roundOne(float64(n)/(1<<10)) + " KB"
	default:
		return strconv.FormatInt(n, 10) + " bytes"
	}
}

func roundOne(f float64) string {
	return strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64)
}
