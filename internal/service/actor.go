package service

import (
	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/models"
	"ambulance-request-backend/pkg/utils"
)

// Actor is the authenticated caller of a privileged operation, taken from a
// validated session token.
type Actor struct {
	HospitalID  uint
	AmbulanceID uint
	Role        string
}

func (a Actor) IsDriver() bool {
	return a.Role == utils.RoleDriver
}

// CanViewHospital allows any session belonging to the hospital.
func (a Actor) CanViewHospital(hospitalID uint) error {
	if a.HospitalID == 0 || a.HospitalID != hospitalID {
		return apperrors.ErrForbidden
	}
	return nil
}

// CanManageHospital allows only hospital admin sessions, not drivers.
func (a Actor) CanManageHospital(hospitalID uint) error {
	if err := a.CanViewHospital(hospitalID); err != nil {
		return err
	}
	if a.Role != utils.RoleHospital {
		return apperrors.ErrForbidden
	}
	return nil
}

// CanOperateAmbulance allows the owning hospital, or the driver of that ambulance.
func (a Actor) CanOperateAmbulance(ambulance *models.Ambulance) error {
	if err := a.CanViewHospital(ambulance.HospitalID); err != nil {
		return err
	}
	if a.IsDriver() && a.AmbulanceID != ambulance.ID {
		return apperrors.ErrForbidden
	}
	return nil
}
