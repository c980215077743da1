package service

import (
	"context"
	"testing"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/models"
	"ambulance-request-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validHospitalInput() RegisterHospitalInput {
	return RegisterHospitalInput{
		Name:            "St. Mary",
		Password:        "s3cret!",
		LocationLat:     -1.29,
		LocationLng:     36.82,
		ContactNumber:   "+254 700 000 000",
		TotalAmbulances: 3,
	}
}

func TestRegisterHospital_CreatesFreeFleet(t *testing.T) {
	utils.SetBcryptCost(bcrypt.MinCost)
	s := newStore()
	svc := NewHospitalService(s, s)

	hospital, err := svc.RegisterHospital(context.Background(), validHospitalInput())
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hospital.PasswordHash)
	assert.True(t, utils.ComparePassword(hospital.PasswordHash, "s3cret!"))

	fleet, err := s.GetAmbulancesByHospitalID(context.Background(), hospital.ID, nil)
	require.NoError(t, err)
	require.Len(t, fleet, 3)
	for _, ambulance := range fleet {
		assert.Equal(t, models.AmbulanceFree, ambulance.Status)
		assert.Equal(t, -1.29, ambulance.LocationLat)
		assert.Equal(t, 36.82, ambulance.LocationLng)
		assert.Zero(t, ambulance.TotalRides)
	}
	assert.Equal(t, []string{"hospital_register"}, s.audits)
}

func TestRegisterHospital_DuplicateName(t *testing.T) {
	utils.SetBcryptCost(bcrypt.MinCost)
	s := newStore()
	svc := NewHospitalService(s, s)

	_, err := svc.RegisterHospital(context.Background(), validHospitalInput())
	require.NoError(t, err)

	_, err = svc.RegisterHospital(context.Background(), validHospitalInput())
	assert.ErrorIs(t, err, apperrors.ErrHospitalExists)
}

func TestRegisterHospital_Validation(t *testing.T) {
	svc := NewHospitalService(newStore(), newStore())

	mutations := map[string]func(*RegisterHospitalInput){
		"blank name":      func(in *RegisterHospitalInput) { in.Name = "  " },
		"short password":  func(in *RegisterHospitalInput) { in.Password = "abc" },
		"bad contact":     func(in *RegisterHospitalInput) { in.ContactNumber = "ring ring" },
		"negative fleet":  func(in *RegisterHospitalInput) { in.TotalAmbulances = -1 },
		"oversized fleet": func(in *RegisterHospitalInput) { in.TotalAmbulances = MaxFleetSize + 1 },
		"bad longitude":   func(in *RegisterHospitalInput) { in.LocationLng = 181 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := validHospitalInput()
			mutate(&in)
			_, err := svc.RegisterHospital(context.Background(), in)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}
