package rbac

// Role identifies one of the fixed platform roles.
type Role string

// Administrative roles.
const (
	RoleSaasAdmin    Role = "SAAS_ADMIN"
	RoleCentralAdmin Role = "CENTRAL_ADMIN"
	RoleBranchAdmin  Role = "BRANCH_ADMIN"
)

// Medical staff.
const (
	RoleDoctor    Role = "DOCTOR"
	RoleHeadNurse Role = "HEAD_NURSE"
	RoleNurse     Role = "NURSE"
	RoleOrthotist Role = "ORTHOTIST"
)

// Front office, financial, HR, insurance, and patient roles.
const (
	RoleReceptionist     Role = "RECEPTIONIST"
	RoleBillingOfficer   Role = "BILLING_OFFICER"
	RoleAccountant       Role = "ACCOUNTANT"
	RoleAccountsManager  Role = "ACCOUNTS_MANAGER"
	RolePayrollOfficer   Role = "PAYROLL_OFFICER"
	RoleHRStaff          Role = "HR_STAFF"
	RoleSupportStaff     Role = "SUPPORT_STAFF"
	RoleInsuranceOfficer Role = "INSURANCE_OFFICER"
	RolePatient          Role = "PATIENT"
)

// AllRoles lists every role the platform knows about. A registry is only
// valid when it carries a config for each of these.
var AllRoles = []Role{
	RoleSaasAdmin,
	RoleCentralAdmin,
	RoleBranchAdmin,
	RoleDoctor,
	RoleHeadNurse,
	RoleNurse,
	RoleOrthotist,
	RoleReceptionist,
	RoleBillingOfficer,
	RoleAccountant,
	RoleAccountsManager,
	RolePayrollOfficer,
	RoleHRStaff,
	RoleSupportStaff,
	RoleInsuranceOfficer,
	RolePatient,
}

// ValidRole reports whether r is one of the fixed platform roles.
func ValidRole(r Role) bool {
	for _, known := range AllRoles {
		if known == r {
			return true
		}
	}
	return false
}

// RoleConfig associates a role with its display name, description, and
// granted permission set.
type RoleConfig struct {
	Name        string
	Description string
	Permissions []Permission
}

// DefaultRoleConfigs returns the built-in role policy. SAAS_ADMIN is granted
// the entire catalog; every other role holds a subset. The returned map is a
// fresh copy on each call.
func DefaultRoleConfigs() map[Role]RoleConfig {
	return map[Role]RoleConfig{
		RoleSaasAdmin: {
			Name:        "SaaS Administrator",
			Description: "Full system access - manages entire platform",
			Permissions: Catalog(),
		},
		RoleCentralAdmin: {
			Name:        "Central Administrator",
			Description: "Manages multiple clinics and branches",
			Permissions: []Permission{
				UserCreate, UserRead, UserUpdate, UserDelete,
				ClinicCreate, ClinicRead, ClinicUpdate, ClinicDelete,
				BranchCreate, BranchRead, BranchUpdate, BranchDelete,
				AppointmentManageAll, AppointmentRead,
				FinancialReports, RevenueAnalytics, LedgerManage,
				HRManage, PayrollManage, AttendanceManage, LeaveManage,
				AISystemManage, AISettingsConfigure,
				AnalyticsAdvanced, ReportsGenerate, DashboardView,
				SystemSettings, AuditLogs, LicenseManage,
				NotificationManage, NotificationSend,
				DepartmentManage, DutyRosterManage,
			},
		},
		RoleBranchAdmin: {
			Name:        "Branch Administrator",
			Description: "Manages single branch operations",
			Permissions: []Permission{
				UserRead, UserUpdate,
				BranchRead, BranchUpdate,
				AppointmentManageAll, AppointmentRead,
				PatientRecordRead, BillingRead,
				FinancialReports, AnalyticsView, DashboardView,
				HRManage, AttendanceManage, LeaveManage,
				NotificationSend,
				DepartmentManage, DutyRosterManage, ShiftManage,
			},
		},
		RoleDoctor: {
			Name:        "Doctor",
			Description: "Medical practitioner - diagnosis and treatment",
			Permissions: []Permission{
				AppointmentRead, AppointmentUpdate,
				PatientRecordCreate, PatientRecordRead, PatientRecordUpdate,
				MedicalHistoryView,
				AIDiagnosisUse, AIOCRUse,
				VitalsRecord, NurseNotes,
				OrthoRequest,
				NotificationSend, ChatAccess, DashboardView,
			},
		},
		RoleHeadNurse: {
			Name:        "Head Nurse",
			Description: "Senior nursing staff - team management",
			Permissions: []Permission{
				AppointmentRead,
				PatientRecordRead, MedicalHistoryView,
				VitalsRecord, PatientMonitoring, NurseNotes,
				NurseAllocation, EscalationManage,
				NotificationSend, ChatAccess,
				DutyRosterManage, DashboardView,
			},
		},
		RoleNurse: {
			Name:        "Nurse",
			Description: "Nursing staff - patient care",
			Permissions: []Permission{
				AppointmentRead,
				PatientRecordRead, MedicalHistoryView,
				VitalsRecord, PatientMonitoring, NurseNotes,
				EscalationManage,
				ChatAccess, DashboardView,
			},
		},
		RoleOrthotist: {
			Name:        "Orthotist",
			Description: "Orthodontic specialist",
			Permissions: []Permission{
				AppointmentRead,
				PatientRecordRead, PatientRecordUpdate,
				OrthoMeasurement, OrthoRequest, BraceStatus, DeliveryTracking,
				ChatAccess, DashboardView,
			},
		},
		RoleReceptionist: {
			Name:        "Receptionist",
			Description: "Front desk - appointments and check-in",
			Permissions: []Permission{
				AppointmentCreate, AppointmentRead, AppointmentUpdate,
				PatientRecordCreate, PatientRecordRead, PatientRecordUpdate,
				NotificationSend, ChatAccess, DashboardView,
			},
		},
		RoleBillingOfficer: {
			Name:        "Billing Officer",
			Description: "Billing and invoicing operations",
			Permissions: []Permission{
				AppointmentRead, PatientRecordRead,
				BillingCreate, BillingRead, BillingUpdate, BillingRefund,
				PaymentProcess, InsuranceClaimCreate,
				ChatAccess, DashboardView,
			},
		},
		RoleAccountant: {
			Name:        "Accountant",
			Description: "Financial records and reporting",
			Permissions: []Permission{
				BillingRead,
				FinancialReports, LedgerManage, ExpenseManage,
				RevenueAnalytics, TaxManage,
				AnalyticsView, ReportsGenerate, DashboardView,
			},
		},
		RoleAccountsManager: {
			Name:        "Accounts Manager",
			Description: "Senior financial management and oversight",
			Permissions: []Permission{
				BillingRead,
				FinancialReports, LedgerManage, ExpenseManage,
				RevenueAnalytics, TaxManage,
				AnalyticsAdvanced, ReportsGenerate, DashboardView,
				AuditLogs,
			},
		},
		RolePayrollOfficer: {
			Name:        "Payroll Officer",
			Description: "Payroll processing and management",
			Permissions: []Permission{
				HRManage, PayrollManage, AttendanceManage,
				FinancialReports, DashboardView,
			},
		},
		RoleHRStaff: {
			Name:        "HR Staff",
			Description: "Human resources management",
			Permissions: []Permission{
				UserRead, UserUpdate,
				HRManage, AttendanceManage, LeaveManage,
				RecruitmentManage, PerformanceManage,
				NotificationSend, ChatAccess, DashboardView,
			},
		},
		RoleSupportStaff: {
			Name:        "Support Staff",
			Description: "General support services",
			Permissions: []Permission{
				AppointmentRead, AttendanceManage,
				ChatAccess, DashboardView,
			},
		},
		RoleInsuranceOfficer: {
			Name:        "Insurance Officer",
			Description: "Insurance claims processing",
			Permissions: []Permission{
				PatientRecordRead, BillingRead,
				InsuranceClaimCreate, InsuranceClaimApprove, InsurancePolicyManage,
				ChatAccess, DashboardView,
			},
		},
		RolePatient: {
			Name:        "Patient",
			Description: "Patient portal access",
			Permissions: []Permission{
				AppointmentCreate, AppointmentRead,
				PatientRecordRead, MedicalHistoryView,
				BillingRead, PaymentProcess,
				ChatAccess, DashboardView,
			},
		},
	}
}
