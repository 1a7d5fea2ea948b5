package bookingv1

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// customer, business or admin
	UserType string `json:"user_type"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	UserType string `json:"user_type"`
	Name     string `json:"name"`
}

type RegisterCustomerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// RegisterBusinessRequest opens a business account. Hours default to
// 09:00-18:00 when empty.
type RegisterBusinessRequest struct {
	BusinessName string `json:"business_name"`
	OwnerName    string `json:"owner_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	OpeningTime  string `json:"opening_time,omitempty"`
	ClosingTime  string `json:"closing_time,omitempty"`
}

type RegisterResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	UserType string `json:"user_type"`
	Name     string `json:"name"`
}

// Appointment is the enriched projection returned by every read and write.
type Appointment struct {
	ID              int64   `json:"id"`
	CustomerID      int64   `json:"customer_id"`
	BusinessID      int64   `json:"business_id"`
	EmployeeID      *int64  `json:"employee_id"`
	ServiceID       int64   `json:"service_id"`
	AppointmentDate string  `json:"appointment_date"`
	AppointmentTime string  `json:"appointment_time"`
	EndTime         string  `json:"end_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Status          string  `json:"status"`
	Notes           string  `json:"notes"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone"`
	BusinessName    string  `json:"business_name"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	ServiceName     string  `json:"service_name"`
	ServicePrice    float64 `json:"service_price"`
	ServiceDuration int     `json:"service_duration"`
}

type CreateAppointmentRequest struct {
	CustomerID      int64  `json:"customer_id"`
	BusinessID      int64  `json:"business_id"`
	EmployeeID      *int64 `json:"employee_id,omitempty"`
	ServiceID       int64  `json:"service_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Notes           string `json:"notes,omitempty"`
}

type CreateAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

// UpdateAppointmentRequest is a partial update. Absent fields are kept.
type UpdateAppointmentRequest struct {
	ID              int64   `json:"id"`
	Status          *string `json:"status,omitempty"`
	AppointmentDate *string `json:"appointment_date,omitempty"`
	AppointmentTime *string `json:"appointment_time,omitempty"`
	EmployeeID      *int64  `json:"employee_id,omitempty"`
	ClearEmployee   bool    `json:"clear_employee,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type UpdateAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type GetAppointmentRequest struct {
	ID int64 `json:"id"`
}

type GetAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type ListCustomerAppointmentsRequest struct {
	CustomerID int64  `json:"customer_id"`
	Date       string `json:"date,omitempty"`
	Status     string `json:"status,omitempty"`
}

type ListBusinessAppointmentsRequest struct {
	BusinessID int64  `json:"business_id"`
	Date       string `json:"date,omitempty"`
	Status     string `json:"status,omitempty"`
}

type ListAllAppointmentsRequest struct {
	Date   string `json:"date,omitempty"`
	Status string `json:"status,omitempty"`
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}

type GetAvailabilityRequest struct {
	BusinessID int64  `json:"business_id"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
	Date       string `json:"date"`
}

// Window is a half-open [start, end) range, both HH:MM:SS.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type GetAvailabilityResponse struct {
	BusinessID int64    `json:"business_id"`
	EmployeeID *int64   `json:"employee_id,omitempty"`
	Date       string   `json:"date"`
	Windows    []Window `json:"windows"`
}
