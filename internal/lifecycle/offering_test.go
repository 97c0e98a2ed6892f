package lifecycle

import (
	"testing"

	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferingFromPackage_PrivateSessions(t *testing.T) {
	pkg := privatePackage()
	require.NoError(t, pkg.SetFeatureList([]string{"Nutrition plan", "Weekly check-in"}))

	offering, err := OfferingFromPackage(pkg)

	require.NoError(t, err)
	p, ok := offering.(PrivateSessionsPackage)
	require.True(t, ok)
	assert.Equal(t, 8, p.SessionsCount)
	assert.Equal(t, 90, p.ValidityDays)
	assert.True(t, p.IncludesSelfTraining)
	assert.Equal(t, []string{"Nutrition plan", "Weekly check-in"}, p.Info().Features)
	assert.Equal(t, models.CategoryPrivateSessions, offering.Category())
}

func TestOfferingFromPackage_SelfTraining(t *testing.T) {
	offering, err := OfferingFromPackage(selfTrainingPackage())

	require.NoError(t, err)
	p, ok := offering.(SelfTrainingPackage)
	require.True(t, ok)
	assert.Equal(t, models.SubscriptionMonthly, p.SubscriptionType)
	assert.Equal(t, date(2024, 2, 15), offering.EndDate(date(2024, 1, 15)))
}

func TestOfferingFromPackage_Rejects(t *testing.T) {
	withForeignFields := privatePackage()
	withForeignFields.DurationMonths = intPtr(3)

	selfWithSessions := selfTrainingPackage()
	selfWithSessions.SessionsCount = intPtr(4)

	zeroSessions := privatePackage()
	zeroSessions.SessionsCount = intPtr(0)

	noValidity := privatePackage()
	noValidity.ValidityDays = nil

	badType := selfTrainingPackage()
	weekly := models.SubscriptionType("weekly")
	badType.SubscriptionType = &weekly

	badDiscount := privatePackage()
	badDiscount.DiscountPercentage = 120

	unknown := privatePackage()
	unknown.Category = "group_classes"

	cases := map[string]models.Package{
		"private with self_training fields": withForeignFields,
		"self_training with session fields": selfWithSessions,
		"zero sessions":                     zeroSessions,
		"missing validity":                  noValidity,
		"unknown subscription type":         badType,
		"discount over 100":                 badDiscount,
		"unknown category":                  unknown,
	}
	for name, pkg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := OfferingFromPackage(pkg)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestFinalPrice_AppliesDiscount(t *testing.T) {
	pkg := privatePackage()
	pkg.DiscountPercentage = 25

	offering, err := OfferingFromPackage(pkg)

	require.NoError(t, err)
	assert.Equal(t, 300.0, offering.FinalPrice())
}
