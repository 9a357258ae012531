package compile

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/internal/logger"
	"github.com/goliatone/go-formflow/pkg/schema"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telPattern   = regexp.MustCompile(`^[0-9+\-\s()]*$`)
)

// compileField builds the validator stack for one field from its type and
// constraints.
func compileField(field schema.Field) *FieldRules {
	rules := &FieldRules{
		name:        field.Name,
		kind:        valueKindOf(field),
		required:    field.IsRequired,
		requiredMsg: field.RequiredErrorText,
	}

	switch schema.Canonical(field.Type) {
	case schema.TypeEmail:
		rules.checks = append(rules.checks, formatCheck(emailPattern, "enter a valid email address"))
	case schema.TypeURL:
		rules.checks = append(rules.checks, urlCheck())
	case schema.TypeTel:
		rules.checks = append(rules.checks, formatCheck(telPattern, "enter a valid phone number"))
	case schema.TypeNumber, schema.TypeRating, schema.TypeRange:
		rules.checks = append(rules.checks, numericCheck())
	case schema.TypeFile:
		rules.checks = append(rules.checks, fileChecks(field)...)
	}

	if rules.kind == KindString {
		rules.checks = append(rules.checks, lengthChecks(field)...)
	}

	for _, custom := range field.Validators {
		check, ok := customCheck(custom)
		if !ok {
			// A malformed admin-entered regex must not take the form down;
			// skip it and leave a trace.
			logger.L.Warn("custom validator skipped",
				"field", field.Name, "regex", custom.Regex)
			continue
		}
		rules.checks = append(rules.checks, check)
	}

	return rules
}

func formatCheck(pattern *regexp.Regexp, message string) Check {
	return func(value any) *Violation {
		s, ok := value.(string)
		if !ok {
			return &Violation{Kind: KindType, Message: "expected text"}
		}
		if !pattern.MatchString(strings.TrimSpace(s)) {
			return &Violation{Kind: KindFormat, Message: message}
		}
		return nil
	}
}

func urlCheck() Check {
	return func(value any) *Violation {
		s, ok := value.(string)
		if !ok {
			return &Violation{Kind: KindType, Message: "expected text"}
		}
		parsed, err := url.Parse(strings.TrimSpace(s))
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return &Violation{Kind: KindFormat, Message: "enter a valid URL"}
		}
		return nil
	}
}

func numericCheck() Check {
	return func(value any) *Violation {
		switch v := value.(type) {
		case int, int32, int64, float32, float64:
			return nil
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				return &Violation{Kind: KindType, Message: "enter a number"}
			}
			return nil
		default:
			return &Violation{Kind: KindType, Message: "enter a number"}
		}
	}
}

func fileChecks(field schema.Field) []Check {
	var checks []Check

	if len(field.FileTypes) > 0 {
		allowed := make(map[string]struct{}, len(field.FileTypes))
		for _, ext := range field.FileTypes {
			allowed[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))] = struct{}{}
		}
		message := fmt.Sprintf("allowed file types: %s", strings.Join(field.FileTypes, ", "))
		checks = append(checks, func(value any) *Violation {
			file := fileOf(value)
			if file == nil {
				return &Violation{Kind: KindType, Message: "expected a file"}
			}
			if _, ok := allowed[file.Ext()]; !ok {
				return &Violation{Kind: KindFileType, Message: message}
			}
			return nil
		})
	}

	if field.FileSizeLimit != "" {
		limit, err := schema.ParseFileSize(field.FileSizeLimit)
		if err != nil {
			// Schema validation catches this at save time; at compile time we
			// skip the unenforceable rule and log.
			logger.L.Warn("file size limit skipped",
				"field", field.Name, "limit", field.FileSizeLimit)
		} else {
			message := fmt.Sprintf("file must be %s or smaller", field.FileSizeLimit)
			checks = append(checks, func(value any) *Violation {
				file := fileOf(value)
				if file == nil {
					return &Violation{Kind: KindType, Message: "expected a file"}
				}
				if file.Size > limit {
					return &Violation{Kind: KindFileSize, Message: message}
				}
				return nil
			})
		}
	}

	return checks
}

func lengthChecks(field schema.Field) []Check {
	var checks []Check
	if field.MinLength != nil {
		min := *field.MinLength
		message := fmt.Sprintf("enter at least %d characters", min)
		checks = append(checks, func(value any) *Violation {
			if s, ok := value.(string); ok && len([]rune(s)) < min {
				return &Violation{Kind: KindMinLength, Message: message}
			}
			return nil
		})
	}
	if field.MaxLength != nil {
		max := *field.MaxLength
		message := fmt.Sprintf("enter no more than %d characters", max)
		checks = append(checks, func(value any) *Violation {
			if s, ok := value.(string); ok && len([]rune(s)) > max {
				return &Violation{Kind: KindMaxLength, Message: message}
			}
			return nil
		})
	}
	return checks
}

func customCheck(validator schema.CustomValidator) (Check, bool) {
	pattern, err := regexp.Compile(validator.Regex)
	if err != nil {
		return nil, false
	}
	message := validator.Text
	if message == "" {
		message = "value does not match the expected pattern"
	}
	return func(value any) *Violation {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		if !pattern.MatchString(s) {
			return &Violation{Kind: KindCustom, Message: message}
		}
		return nil
	}, true
}

// fileOf unwraps the supported file handle shapes; nil means "no file".
func fileOf(value any) *schema.File {
	switch v := value.(type) {
	case schema.File:
		if v.Empty() {
			return nil
		}
		return &v
	case *schema.File:
		if v == nil || v.Empty() {
			return nil
		}
		return v
	default:
		return nil
	}
}
