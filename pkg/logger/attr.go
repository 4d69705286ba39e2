package logger

import "log/slog"

// Error creates an attribute for an error under the key "error".
// Nil errors produce an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records a user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

// Email records an email address under the key "email".
func Email(email string) slog.Attr {
	return slog.String("email", email)
}

// Role records a role tag under the key "role".
func Role(role any) slog.Attr {
	return slog.Any("role", role)
}

// ClinicID records the tenant clinic identifier under the key "clinic_id".
func ClinicID(id string) slog.Attr {
	return slog.String("clinic_id", id)
}

// BranchID records the tenant branch identifier under the key "branch_id".
func BranchID(id string) slog.Attr {
	return slog.String("branch_id", id)
}

// Component records the originating component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
