package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/blowline/shiftlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validRecord() *schema.ProductionRecord {
	return &schema.ProductionRecord{
		Section:            " ASB 1 (PET) ",
		Date:               "2025-03-14",
		Shift:              "Day",
		ShiftStart:         "08:00",
		ShiftEnd:           "16:00",
		BreakdownStart1:    "10:00",
		BreakdownEnd1:      "10:30",
		CustomerName:       "  Acme  ",
		Processes:          []string{"Embossing", " ", "Embossing", "Labelling"},
		GoodBottles:        "1000",
		RejectedBottles:    "50",
		Preform:            "20",
		LumpsKg:            "5",
		NetRunningHours:    "99.00", // client-sent derived values are replaced
		WastagePercentage:  "0.00%",
		TotalDowntimeHours: "bogus",
	}
}

func TestSubmitRecord(t *testing.T) {
	s := store.NewMemoryRecordStore()
	calc := DefaultCalculator()

	before := time.Now().UTC()
	saved, err := SubmitRecord(context.Background(), calc, s, validRecord())
	require.NoError(t, err)

	assert.Equal(t, "1", saved.ID)
	assert.Equal(t, schema.SectionASB1, saved.Section)
	assert.Equal(t, "Acme", saved.CustomerName)
	assert.Equal(t, []string{"Embossing", "Labelling"}, saved.Processes)
	assert.Equal(t, "7.50", saved.NetRunningHours)
	assert.Equal(t, "0.50", saved.TotalDowntimeHours)
	assert.Equal(t, "7.16%", saved.WastagePercentage)
	assert.False(t, saved.CreatedAt.Before(before))

	latest, err := s.FindLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved.ID, latest.ID)
	assert.Equal(t, "7.16%", latest.WastagePercentage)
}

func TestSubmitRecord_KeepsCreatedAt(t *testing.T) {
	s := store.NewMemoryRecordStore()
	rec := validRecord()
	created := time.Date(2024, 12, 1, 22, 0, 0, 0, time.UTC)
	rec.CreatedAt = created

	saved, err := SubmitRecord(context.Background(), DefaultCalculator(), s, rec)
	require.NoError(t, err)
	assert.True(t, saved.CreatedAt.Equal(created))
}

func TestSubmitRecord_Validation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*schema.ProductionRecord)
		wantMissing []string
		wantInvalid []string
	}{
		{
			name: "missing required fields",
			mutate: func(r *schema.ProductionRecord) {
				r.Section = " "
				r.Date = ""
				r.CustomerName = "\t"
			},
			wantMissing: []string{"section", "date", "customerName"},
		},
		{
			name:        "bad date",
			mutate:      func(r *schema.ProductionRecord) { r.Date = "14/03/2025" },
			wantInvalid: []string{"date"},
		},
		{
			name: "bad clocks",
			mutate: func(r *schema.ProductionRecord) {
				r.ShiftStart = "8am"
				r.BreakdownEnd2 = "25:00"
			},
			wantInvalid: []string{"shiftStart", "breakdownEnd2"},
		},
		{
			name:        "unknown process",
			mutate:      func(r *schema.ProductionRecord) { r.Processes = []string{"Welding"} },
			wantInvalid: []string{"processes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &store.MockRecordStore{}
			rec := validRecord()
			tt.mutate(rec)

			_, err := SubmitRecord(context.Background(), DefaultCalculator(), s, rec)
			var verr *contract.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMissing, verr.Missing)
			assert.Equal(t, tt.wantInvalid, verr.Invalid)
			s.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitRecord_StoreError(t *testing.T) {
	s := &store.MockRecordStore{}
	s.On("Save", mock.Anything, mock.AnythingOfType("*schema.ProductionRecord")).Return("", errors.New("disk full"))

	_, err := SubmitRecord(context.Background(), DefaultCalculator(), s, validRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	var verr *contract.ValidationError
	assert.False(t, errors.As(err, &verr))
	s.AssertExpectations(t)
}

func TestSubmitRecord_NilStore(t *testing.T) {
	_, err := SubmitRecord(context.Background(), DefaultCalculator(), nil, validRecord())
	assert.Error(t, err)
}

func TestNormalizeRecord_DoesNotMutateInput(t *testing.T) {
	rec := validRecord()
	rec.ID = "client-id"
	clean := NormalizeRecord(rec)

	assert.Empty(t, clean.ID)
	assert.Equal(t, "  Acme  ", rec.CustomerName)
	assert.Len(t, rec.Processes, 4)
	assert.Equal(t, "Acme", clean.CustomerName)
}

func TestApplyDerived_MalformedClock(t *testing.T) {
	rec := &schema.ProductionRecord{ShiftStart: "x:00", ShiftEnd: "16:00", Section: schema.SectionASB2}
	view := ApplyDerived(DefaultCalculator(), rec)
	assert.False(t, view.Available)
	assert.Equal(t, "N/A", rec.NetRunningHours)
	assert.Equal(t, "0.00%", rec.WastagePercentage)
}
