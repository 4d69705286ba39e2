package rbac

import "slices"

// Permission is a fine-grained capability tag. The set of valid permissions
// is closed and defined at build time; stores and tokens carry the raw tag.
type Permission string

// User management.
const (
	UserCreate    Permission = "USER_CREATE"
	UserRead      Permission = "USER_READ"
	UserUpdate    Permission = "USER_UPDATE"
	UserDelete    Permission = "USER_DELETE"
	UserManageAll Permission = "USER_MANAGE_ALL"
)

// Clinic and branch management.
const (
	ClinicCreate Permission = "CLINIC_CREATE"
	ClinicRead   Permission = "CLINIC_READ"
	ClinicUpdate Permission = "CLINIC_UPDATE"
	ClinicDelete Permission = "CLINIC_DELETE"

	BranchCreate Permission = "BRANCH_CREATE"
	BranchRead   Permission = "BRANCH_READ"
	BranchUpdate Permission = "BRANCH_UPDATE"
	BranchDelete Permission = "BRANCH_DELETE"
)

// Appointments.
const (
	AppointmentCreate    Permission = "APPOINTMENT_CREATE"
	AppointmentRead      Permission = "APPOINTMENT_READ"
	AppointmentUpdate    Permission = "APPOINTMENT_UPDATE"
	AppointmentDelete    Permission = "APPOINTMENT_DELETE"
	AppointmentManageAll Permission = "APPOINTMENT_MANAGE_ALL"
)

// Patient records.
const (
	PatientRecordCreate Permission = "PATIENT_RECORD_CREATE"
	PatientRecordRead   Permission = "PATIENT_RECORD_READ"
	PatientRecordUpdate Permission = "PATIENT_RECORD_UPDATE"
	PatientRecordDelete Permission = "PATIENT_RECORD_DELETE"
	MedicalHistoryView  Permission = "MEDICAL_HISTORY_VIEW"
)

// Billing and payments.
const (
	BillingCreate  Permission = "BILLING_CREATE"
	BillingRead    Permission = "BILLING_READ"
	BillingUpdate  Permission = "BILLING_UPDATE"
	BillingRefund  Permission = "BILLING_REFUND"
	PaymentProcess Permission = "PAYMENT_PROCESS"
)

// Financial management.
const (
	FinancialReports Permission = "FINANCIAL_REPORTS"
	LedgerManage     Permission = "LEDGER_MANAGE"
	ExpenseManage    Permission = "EXPENSE_MANAGE"
	RevenueAnalytics Permission = "REVENUE_ANALYTICS"
	TaxManage        Permission = "TAX_MANAGE"
)

// HR and payroll.
const (
	HRManage          Permission = "HR_MANAGE"
	PayrollManage     Permission = "PAYROLL_MANAGE"
	AttendanceManage  Permission = "ATTENDANCE_MANAGE"
	LeaveManage       Permission = "LEAVE_MANAGE"
	RecruitmentManage Permission = "RECRUITMENT_MANAGE"
	PerformanceManage Permission = "PERFORMANCE_MANAGE"
)

// Nursing operations.
const (
	VitalsRecord      Permission = "VITALS_RECORD"
	PatientMonitoring Permission = "PATIENT_MONITORING"
	NurseNotes        Permission = "NURSE_NOTES"
	NurseAllocation   Permission = "NURSE_ALLOCATION"
	EscalationManage  Permission = "ESCALATION_MANAGE"
)

// Orthodontic services.
const (
	OrthoMeasurement Permission = "ORTHO_MEASUREMENT"
	OrthoRequest     Permission = "ORTHO_REQUEST"
	BraceStatus      Permission = "BRACE_STATUS"
	DeliveryTracking Permission = "DELIVERY_TRACKING"
)

// AI features.
const (
	AIDiagnosisUse      Permission = "AI_DIAGNOSIS_USE"
	AIOCRUse            Permission = "AI_OCR_USE"
	AISystemManage      Permission = "AI_SYSTEM_MANAGE"
	AISettingsConfigure Permission = "AI_SETTINGS_CONFIGURE"
)

// Analytics.
const (
	AnalyticsView     Permission = "ANALYTICS_VIEW"
	AnalyticsAdvanced Permission = "ANALYTICS_ADVANCED"
	ReportsGenerate   Permission = "REPORTS_GENERATE"
	DashboardView     Permission = "DASHBOARD_VIEW"
)

// System administration.
const (
	SystemSettings Permission = "SYSTEM_SETTINGS"
	AuditLogs      Permission = "AUDIT_LOGS"
	LicenseManage  Permission = "LICENSE_MANAGE"
	BackupRestore  Permission = "BACKUP_RESTORE"
	SecurityManage Permission = "SECURITY_MANAGE"
)

// Insurance.
const (
	InsuranceClaimCreate  Permission = "INSURANCE_CLAIM_CREATE"
	InsuranceClaimApprove Permission = "INSURANCE_CLAIM_APPROVE"
	InsurancePolicyManage Permission = "INSURANCE_POLICY_MANAGE"
)

// Inventory and pharmacy.
const (
	InventoryManage Permission = "INVENTORY_MANAGE"
	PharmacyManage  Permission = "PHARMACY_MANAGE"
	StockManage     Permission = "STOCK_MANAGE"
)

// Collaboration.
const (
	ChatAccess         Permission = "CHAT_ACCESS"
	NotificationSend   Permission = "NOTIFICATION_SEND"
	NotificationManage Permission = "NOTIFICATION_MANAGE"
)

// Department operations.
const (
	DepartmentManage Permission = "DEPARTMENT_MANAGE"
	DutyRosterManage Permission = "DUTY_ROSTER_MANAGE"
	ShiftManage      Permission = "SHIFT_MANAGE"
)

// permissionDescriptions is the human-readable catalog. Membership in this map
// defines the closed set of valid permissions.
var permissionDescriptions = map[Permission]string{
	UserCreate:    "Create new users",
	UserRead:      "View user information",
	UserUpdate:    "Update user information",
	UserDelete:    "Delete users",
	UserManageAll: "Full user management access",

	ClinicCreate: "Create new clinics",
	ClinicRead:   "View clinic information",
	ClinicUpdate: "Update clinic information",
	ClinicDelete: "Delete clinics",
	BranchCreate: "Create new branches",
	BranchRead:   "View branch information",
	BranchUpdate: "Update branch information",
	BranchDelete: "Delete branches",

	AppointmentCreate:    "Create appointments",
	AppointmentRead:      "View appointments",
	AppointmentUpdate:    "Update appointments",
	AppointmentDelete:    "Cancel appointments",
	AppointmentManageAll: "Manage all appointments across clinics",

	PatientRecordCreate: "Create patient records",
	PatientRecordRead:   "View patient records",
	PatientRecordUpdate: "Update patient records",
	PatientRecordDelete: "Delete patient records",
	MedicalHistoryView:  "View medical history",

	BillingCreate:  "Create bills",
	BillingRead:    "View bills",
	BillingUpdate:  "Update bills",
	BillingRefund:  "Process refunds",
	PaymentProcess: "Process payments",

	FinancialReports: "View financial reports",
	LedgerManage:     "Manage ledger entries",
	ExpenseManage:    "Manage expenses",
	RevenueAnalytics: "Access revenue analytics",
	TaxManage:        "Manage tax information",

	HRManage:          "Manage HR operations",
	PayrollManage:     "Manage payroll",
	AttendanceManage:  "Manage attendance",
	LeaveManage:       "Manage leave requests",
	RecruitmentManage: "Manage recruitment",
	PerformanceManage: "Manage performance reviews",

	VitalsRecord:      "Record patient vitals",
	PatientMonitoring: "Monitor patients",
	NurseNotes:        "Create nurse notes",
	NurseAllocation:   "Allocate nursing staff",
	EscalationManage:  "Manage escalations",

	OrthoMeasurement: "Record orthodontic measurements",
	OrthoRequest:     "Create orthodontic requests",
	BraceStatus:      "Update brace status",
	DeliveryTracking: "Track deliveries",

	AIDiagnosisUse:      "Use AI diagnosis tools",
	AIOCRUse:            "Use OCR scanning",
	AISystemManage:      "Manage AI systems",
	AISettingsConfigure: "Configure AI settings",

	AnalyticsView:     "View analytics",
	AnalyticsAdvanced: "Access advanced analytics",
	ReportsGenerate:   "Generate reports",
	DashboardView:     "View dashboards",

	SystemSettings: "Manage system settings",
	AuditLogs:      "View audit logs",
	LicenseManage:  "Manage licenses",
	BackupRestore:  "Backup and restore",
	SecurityManage: "Manage security settings",

	InsuranceClaimCreate:  "Create insurance claims",
	InsuranceClaimApprove: "Approve insurance claims",
	InsurancePolicyManage: "Manage insurance policies",

	InventoryManage: "Manage inventory",
	PharmacyManage:  "Manage pharmacy",
	StockManage:     "Manage stock levels",

	ChatAccess:         "Access chat system",
	NotificationSend:   "Send notifications",
	NotificationManage: "Manage notifications",

	DepartmentManage: "Manage departments",
	DutyRosterManage: "Manage duty rosters",
	ShiftManage:      "Manage shifts",
}

// Catalog returns every permission in the system, sorted by tag.
// The returned slice is a copy and safe to mutate.
func Catalog() []Permission {
	out := make([]Permission, 0, len(permissionDescriptions))
	for p := range permissionDescriptions {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Describe returns the human-readable description for a permission.
// Unknown permissions describe as an empty string.
func Describe(p Permission) string {
	return permissionDescriptions[p]
}

// ValidPermission reports whether p belongs to the catalog.
func ValidPermission(p Permission) bool {
	_, ok := permissionDescriptions[p]
	return ok
}
