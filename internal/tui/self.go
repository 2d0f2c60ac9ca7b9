package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/mediconnect/mediconnect/pkg/client"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

// self is the signed-in user's own record: the id other records refer to
// and the name to greet them by.
type self struct {
	ID   domain.ID
	Name string
}

// lookupSelf finds the patient or doctor record behind the session by
// matching the username, the way the backend's session only carries
// credentials. Admins have no record.
func lookupSelf(ctx context.Context, c *client.Client, sess domain.Session) (self, error) {
	me := self{ID: sess.ID, Name: domain.GreetingName("", "", sess.Username)}
	switch sess.Role {
	case domain.RolePatient:
		list, err := c.Patients().List(ctx)
		if err != nil {
			return me, err
		}
		for _, p := range list {
			if strings.EqualFold(p.Username, sess.Username) {
				return self{ID: p.ID, Name: domain.GreetingName(p.Name, p.FirstName, p.Username)}, nil
			}
		}
	case domain.RoleDoctor:
		list, err := c.Doctors().List(ctx)
		if err != nil {
			return me, err
		}
		for _, d := range list {
			if strings.EqualFold(d.Username, sess.Username) {
				return self{ID: d.ID, Name: domain.GreetingName(d.Name, "", d.Username)}, nil
			}
		}
	default:
		return me, nil
	}
	if !me.ID.IsZero() {
		return me, nil
	}
	return me, fmt.Errorf("no %s found for username: %s", sess.Role.LoginSegment(), sess.Username)
}

// myAppointments loads every appointment and keeps the user's own,
// comparing normalized ids.
func myAppointments(c *client.Client, sess domain.Session) func(ctx context.Context) ([]domain.Appointment, error) {
	return func(ctx context.Context) ([]domain.Appointment, error) {
		me, err := lookupSelf(ctx, c, sess)
		if err != nil {
			return nil, err
		}
		list, err := c.Appointments().List(ctx)
		if err != nil {
			return nil, err
		}
		return domain.AppointmentsFor(list, sess.Role, me.ID), nil
	}
}

// myPrescriptions loads the user's prescriptions through the per-patient or
// per-doctor endpoint.
func myPrescriptions(c *client.Client, sess domain.Session) func(ctx context.Context) ([]domain.Prescription, error) {
	return func(ctx context.Context) ([]domain.Prescription, error) {
		me, err := lookupSelf(ctx, c, sess)
		if err != nil {
			return nil, err
		}
		var list []domain.Prescription
		if sess.Role == domain.RoleDoctor {
			list, err = c.PrescriptionsByDoctor(ctx, me.ID)
		} else {
			list, err = c.PrescriptionsByPatient(ctx, me.ID)
		}
		if err != nil {
			return nil, err
		}
		return domain.PrescriptionsFor(list, sess.Role, me.ID), nil
	}
}

// overview is what a patient or doctor dashboard shows.
type overview struct {
	me            self
	appointments  []domain.Appointment
	prescriptions []domain.Prescription
}

// loadOverview resolves the user and then loads their appointments and
// prescriptions. A failed appointment or prescription request leaves that
// list empty rather than failing the dashboard.
func loadOverview(c *client.Client, sess domain.Session) func(ctx context.Context) ([]overview, error) {
	return func(ctx context.Context) ([]overview, error) {
		me, err := lookupSelf(ctx, c, sess)
		if err != nil {
			return nil, err
		}
		ov := overview{me: me}
		if appts, err := c.AppointmentsFor(ctx, sess.Role, me.ID); err == nil {
			ov.appointments = domain.AppointmentsFor(appts, sess.Role, me.ID)
		}
		var rx []domain.Prescription
		if sess.Role == domain.RoleDoctor {
			rx, err = c.PrescriptionsByDoctor(ctx, me.ID)
		} else {
			rx, err = c.PrescriptionsByPatient(ctx, me.ID)
		}
		if err == nil {
			ov.prescriptions = domain.PrescriptionsFor(rx, sess.Role, me.ID)
		}
		return []overview{ov}, nil
	}
}
