package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Aceita E.164 ou o formato BR comum com DDI 55 (ex: 5511999998888).
var phoneRegex = regexp.MustCompile(`^\+?[1-9][0-9]{9,14}$`)

func ValidateChatIntakeInput(input ChatIntakeInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.StudioID) == "" {
		errors = append(errors, ValidationError{"studio_id", "is required"})
	}

	if strings.TrimSpace(input.Message) == "" {
		errors = append(errors, ValidationError{"message", "is required"})
	} else if len(input.Message) > 4000 {
		errors = append(errors, ValidationError{"message", "must not exceed 4000 characters"})
	}

	ids := input.Identifiers
	if ids.Whatsapp != "" && !isValidPhoneNumber(ids.Whatsapp) {
		errors = append(errors, ValidationError{"identifiers.whatsapp", "must be a valid phone number"})
	}
	if ids.Email != "" {
		if _, err := mail.ParseAddress(ids.Email); err != nil {
			errors = append(errors, ValidationError{"identifiers.email", "is invalid"})
		}
	}

	if input.Collected.Name != "" && len(input.Collected.Name) > 200 {
		errors = append(errors, ValidationError{"collected_data.name", "must not exceed 200 characters"})
	}
	if input.Collected.EventDate != "" && !isValidDate(input.Collected.EventDate) {
		errors = append(errors, ValidationError{"collected_data.event_date", "must be a valid date (YYYY-MM-DD)"})
	}

	return errors
}

func ValidateSignProposalInput(input SignProposalInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.ProposalID) == "" {
		errors = append(errors, ValidationError{"proposal_id", "is required"})
	}
	if strings.TrimSpace(input.SignerName) == "" {
		errors = append(errors, ValidationError{"signer_name", "is required"})
	} else if len(input.SignerName) < 3 {
		errors = append(errors, ValidationError{"signer_name", "must have at least 3 characters"})
	}
	if strings.TrimSpace(input.SignerEmail) == "" {
		errors = append(errors, ValidationError{"signer_email", "is required"})
	} else if _, err := mail.ParseAddress(input.SignerEmail); err != nil {
		errors = append(errors, ValidationError{"signer_email", "is invalid"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(phone)
	return phoneRegex.MatchString(cleaned)
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}
