package models

import (
	"fmt"
	"regexp"
	"time"
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	phoneRegex = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
	emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
)

func ValidatePhoneNumber(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Contains reports whether value is part of the vocabulary.
func Contains(vocabulary []string, value string) bool {
	for _, v := range vocabulary {
		if v == value {
			return true
		}
	}
	return false
}

// InvalidValues returns every value not present in the vocabulary, in input order.
func InvalidValues(values, vocabulary []string) []string {
	invalid := []string{}
	for _, v := range values {
		if !Contains(vocabulary, v) {
			invalid = append(invalid, v)
		}
	}
	return invalid
}

// ValidateClient checks a fully merged client record against every rule that
// is not a controlled-vocabulary list check. It touches no storage; callers
// run it before any persistence call.
func ValidateClient(cl *Client) []FieldError {
	errs := []FieldError{}

	if cl.FirstName == "" {
		errs = append(errs, FieldError{"firstName", "First name is required"})
	} else if len(cl.FirstName) < 2 || len(cl.FirstName) > 100 {
		errs = append(errs, FieldError{"firstName", "First name must be between 2 and 100 characters"})
	}
	if len(cl.LastName) > 100 {
		errs = append(errs, FieldError{"lastName", "Last name cannot exceed 100 characters"})
	}
	if cl.Gender != "" && !Contains(ValidGenders, cl.Gender) {
		errs = append(errs, FieldError{"gender", "Gender must be either Hombre, Mujer, or N/A"})
	}
	if cl.Language == "" {
		errs = append(errs, FieldError{"language", "Language is required"})
	} else if !Contains(ValidLanguages, cl.Language) {
		errs = append(errs, FieldError{"language", "Language must be Español"})
	}
	if cl.Birthday != nil && !cl.Birthday.Before(time.Now()) {
		errs = append(errs, FieldError{"birthday", "Birthday must be a valid date in the past"})
	}
	if cl.PhoneNumber == "" {
		errs = append(errs, FieldError{"phoneNumber", "Phone number is required"})
	} else if !ValidatePhoneNumber(cl.PhoneNumber) {
		errs = append(errs, FieldError{"phoneNumber", "Please enter a valid phone number"})
	}
	if cl.AgeRange != "" && !Contains(ValidAgeRanges, cl.AgeRange) {
		errs = append(errs, FieldError{"ageRange", "Please select a valid age range"})
	}
	if cl.Email != nil && *cl.Email != "" && !ValidateEmail(*cl.Email) {
		errs = append(errs, FieldError{"email", "Please enter a valid email"})
	}
	if !cl.TermsAccepted {
		errs = append(errs, FieldError{"termsAccepted", "Terms and conditions must be accepted"})
	}
	if cl.ConsentGiven && cl.ConsentDate == nil {
		errs = append(errs, FieldError{"consentDate", "Consent date is required when consent is given"})
	}
	if cl.SkinType != "" && !Contains(ValidSkinTypes, cl.SkinType) {
		errs = append(errs, FieldError{"skinType", "Please select a valid skin type"})
	}
	for _, pref := range cl.Preferences {
		if pref == "" {
			errs = append(errs, FieldError{"preferences", "Preferences must be non-empty strings"})
			break
		}
	}

	return errs
}

// ValidateInteraction checks a merged interaction record. Client existence is
// a storage concern and is checked by the service, not here.
func ValidateInteraction(i *InteractionLog) []FieldError {
	errs := []FieldError{}

	if i.Notes == "" {
		errs = append(errs, FieldError{"notes", "Notes are required"})
	} else if len(i.Notes) > 1000 {
		errs = append(errs, FieldError{"notes", "Notes cannot exceed 1000 characters"})
	}
	if i.Action != "" && !Contains(ValidActions, i.Action) {
		errs = append(errs, FieldError{"action", fmt.Sprintf("Action must be one of %v", ValidActions)})
	}
	if i.DurationMinutes < 0 {
		errs = append(errs, FieldError{"durationMinutes", "Duration cannot be negative"})
	}
	if i.FollowUp && i.FollowUpDate == nil {
		errs = append(errs, FieldError{"followUpDate", "Follow-up date is required when follow-up is set"})
	}

	return errs
}

func validScore(score int) bool {
	return score >= 1 && score <= 5
}

// ValidateSurvey checks the overall score, the four structured responses and
// the comment length.
func ValidateSurvey(s *SatisfactionSurvey) []FieldError {
	errs := []FieldError{}

	if !validScore(s.OverallScore) {
		errs = append(errs, FieldError{"overallScore", "Overall score must be between 1 and 5"})
	}
	if !validScore(s.Friendliness) {
		errs = append(errs, FieldError{"friendliness", "Friendliness must be between 1 and 5"})
	}
	if !validScore(s.ProductKnowledge) {
		errs = append(errs, FieldError{"productKnowledge", "Product knowledge must be between 1 and 5"})
	}
	if !validScore(s.UsefulRecommendations) {
		errs = append(errs, FieldError{"usefulRecommendations", "Useful recommendations must be between 1 and 5"})
	}
	if !Contains(ValidWouldReturn, s.WouldReturn) {
		errs = append(errs, FieldError{"wouldReturn", "Would return must be Sí, No, or Tal vez"})
	}
	if len(s.Comments) > 1000 {
		errs = append(errs, FieldError{"comments", "Comments cannot exceed 1000 characters"})
	}

	return errs
}
