package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mediconnect/mediconnect/pkg/domain"
)

// Resource is the CRUD table for one backend collection.
type Resource[T any] struct {
	c    *Client
	name string
}

func newResource[T any](c *Client, name string) Resource[T] {
	return Resource[T]{c: c, name: name}
}

func (r Resource[T]) path(id domain.ID) string {
	if id.IsZero() {
		return "/" + r.name
	}
	return "/" + r.name + "/" + url.PathEscape(id.String())
}

// Name returns the collection name, e.g. "doctors".
func (r Resource[T]) Name() string { return r.name }

// List fetches the whole collection.
func (r Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.c.get(ctx, r.path(""), &items); err != nil {
		return nil, fmt.Errorf("client.%s.List: %w", r.name, err)
	}
	return items, nil
}

// Get fetches one record.
func (r Resource[T]) Get(ctx context.Context, id domain.ID) (*T, error) {
	var item T
	if id.IsZero() {
		return nil, fmt.Errorf("client.%s.Get: %w", r.name, ErrMissingID)
	}
	if err := r.c.get(ctx, r.path(id), &item); err != nil {
		return nil, fmt.Errorf("client.%s.Get: %w", r.name, err)
	}
	return &item, nil
}

// Create posts a new record and returns what the server stored.
func (r Resource[T]) Create(ctx context.Context, item T) (*T, error) {
	var created T
	if err := r.c.post(ctx, r.path(""), item, &created); err != nil {
		return nil, fmt.Errorf("client.%s.Create: %w", r.name, err)
	}
	return &created, nil
}

// Update replaces a record.
func (r Resource[T]) Update(ctx context.Context, id domain.ID, item T) (*T, error) {
	var updated T
	if id.IsZero() {
		return nil, fmt.Errorf("client.%s.Update: %w", r.name, ErrMissingID)
	}
	if err := r.c.put(ctx, r.path(id), item, &updated); err != nil {
		return nil, fmt.Errorf("client.%s.Update: %w", r.name, err)
	}
	return &updated, nil
}

// Delete removes a record.
func (r Resource[T]) Delete(ctx context.Context, id domain.ID) error {
	if id.IsZero() {
		return fmt.Errorf("client.%s.Delete: %w", r.name, ErrMissingID)
	}
	if err := r.c.remove(ctx, r.path(id)); err != nil {
		return fmt.Errorf("client.%s.Delete: %w", r.name, err)
	}
	return nil
}

// Doctors is the /doctors table.
func (c *Client) Doctors() Resource[domain.Doctor] {
	return newResource[domain.Doctor](c, "doctors")
}

// Patients is the /patients table.
func (c *Client) Patients() Resource[domain.Patient] {
	return newResource[domain.Patient](c, "patients")
}

// Appointments is the /appointments table.
func (c *Client) Appointments() Resource[domain.Appointment] {
	return newResource[domain.Appointment](c, "appointments")
}

// Specializations is the /specializations table.
func (c *Client) Specializations() Resource[domain.Specialization] {
	return newResource[domain.Specialization](c, "specializations")
}

// Prescriptions is the /prescriptions table.
func (c *Client) Prescriptions() Resource[domain.Prescription] {
	return newResource[domain.Prescription](c, "prescriptions")
}

// PrescriptionsByPatient lists the prescriptions written for a patient.
func (c *Client) PrescriptionsByPatient(ctx context.Context, patientID domain.ID) ([]domain.Prescription, error) {
	var items []domain.Prescription
	if err := c.get(ctx, "/prescriptions/patient/"+url.PathEscape(patientID.String()), &items); err != nil {
		return nil, fmt.Errorf("client.PrescriptionsByPatient: %w", err)
	}
	return items, nil
}

// PrescriptionsByDoctor lists the prescriptions a doctor has written.
func (c *Client) PrescriptionsByDoctor(ctx context.Context, doctorID domain.ID) ([]domain.Prescription, error) {
	var items []domain.Prescription
	if err := c.get(ctx, "/prescriptions/doctor/"+url.PathEscape(doctorID.String()), &items); err != nil {
		return nil, fmt.Errorf("client.PrescriptionsByDoctor: %w", err)
	}
	return items, nil
}

// AppointmentsFor lists the appointments of one patient or doctor through
// /appointments/{role}/{id}.
func (c *Client) AppointmentsFor(ctx context.Context, role domain.Role, id domain.ID) ([]domain.Appointment, error) {
	var items []domain.Appointment
	path := "/appointments/" + role.LoginSegment() + "/" + url.PathEscape(id.String())
	if err := c.get(ctx, path, &items); err != nil {
		return nil, fmt.Errorf("client.AppointmentsFor: %w", err)
	}
	return items, nil
}

// BookAppointment creates an appointment from a patient's booking request.
func (c *Client) BookAppointment(ctx context.Context, req domain.BookingRequest) (*domain.Appointment, error) {
	var created domain.Appointment
	if err := c.post(ctx, "/appointments", req, &created); err != nil {
		return nil, fmt.Errorf("client.BookAppointment: %w", err)
	}
	return &created, nil
}
