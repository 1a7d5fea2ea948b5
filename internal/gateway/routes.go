package gateway

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	bookingv1 "appointment-booking-api/api/bookingv1"
)

func (g *Gateway) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bookingv1.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	g.doLogin(w, r, &req)
}

// loginAs serves /api/auth/<kind>/login; the path decides user_type.
func (g *Gateway) loginAs(kind string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req bookingv1.LoginRequest
		if !decode(w, r, &req) {
			return
		}
		req.UserType = kind
		g.doLogin(w, r, &req)
	}
}

func (g *Gateway) doLogin(w http.ResponseWriter, r *http.Request, req *bookingv1.LoginRequest) {
	resp, err := g.client.Login(outgoing(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (g *Gateway) registerCustomer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bookingv1.RegisterCustomerRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := g.client.RegisterCustomer(outgoing(r), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (g *Gateway) registerBusiness(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bookingv1.RegisterBusinessRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := g.client.RegisterBusiness(outgoing(r), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (g *Gateway) createAppointment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bookingv1.CreateAppointmentRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := g.client.CreateAppointment(outgoing(r), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, resp.Appointment)
}

func (g *Gateway) updateAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := pathID(w, ps, "id")
	if !ok {
		return
	}
	var req bookingv1.UpdateAppointmentRequest
	if !decode(w, r, &req) {
		return
	}
	req.ID = id
	resp, err := g.client.UpdateAppointment(outgoing(r), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp.Appointment)
}

func (g *Gateway) getAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := pathID(w, ps, "id")
	if !ok {
		return
	}
	resp, err := g.client.GetAppointment(outgoing(r), &bookingv1.GetAppointmentRequest{ID: id})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp.Appointment)
}

func (g *Gateway) customerAppointments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := pathID(w, ps, "id")
	if !ok {
		return
	}
	q := r.URL.Query()
	resp, err := g.client.ListCustomerAppointments(outgoing(r), &bookingv1.ListCustomerAppointmentsRequest{
		CustomerID: id,
		Date:       q.Get("date"),
		Status:     q.Get("status"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nonNil(resp.Appointments))
}

func (g *Gateway) businessAppointments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := pathID(w, ps, "id")
	if !ok {
		return
	}
	q := r.URL.Query()
	resp, err := g.client.ListBusinessAppointments(outgoing(r), &bookingv1.ListBusinessAppointmentsRequest{
		BusinessID: id,
		Date:       q.Get("date"),
		Status:     q.Get("status"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nonNil(resp.Appointments))
}

func (g *Gateway) allAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	resp, err := g.client.ListAllAppointments(outgoing(r), &bookingv1.ListAllAppointmentsRequest{
		Date:   q.Get("date"),
		Status: q.Get("status"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nonNil(resp.Appointments))
}

func (g *Gateway) availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := pathID(w, ps, "businessId")
	if !ok {
		return
	}
	emp, err := queryID(r, "employee_id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	resp, err := g.client.GetAvailability(outgoing(r), &bookingv1.GetAvailabilityRequest{
		BusinessID: id,
		EmployeeID: emp,
		Date:       r.URL.Query().Get("date"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if resp.Windows == nil {
		resp.Windows = []bookingv1.Window{}
	}
	writeSuccess(w, http.StatusOK, resp)
}

// nonNil keeps empty lists as [] rather than null in JSON.
func nonNil(as []*bookingv1.Appointment) []*bookingv1.Appointment {
	if as == nil {
		return []*bookingv1.Appointment{}
	}
	return as
}
