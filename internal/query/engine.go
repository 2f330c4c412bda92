// Package query holds the five insight queries over user records. Every
// function is pure: it reads the input slice, never mutates it, and returns
// a fresh, non-nil result that preserves input order.
package query

import (
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

// ByIncomeAndCar returns users earning strictly less than maxIncome whose
// car brand is in cars.
func ByIncomeAndCar(users []types.UserRecord, cars []string, maxIncome float64) []types.UserRecord {
	return filter(users, func(u types.UserRecord) bool {
		return u.Income < maxIncome && slices.Contains(cars, u.CarBrand)
	})
}

// ByGenderAndPhonePrice returns users of the given gender whose phone costs
// strictly more than minPrice.
func ByGenderAndPhonePrice(users []types.UserRecord, gender types.Gender, minPrice float64) []types.UserRecord {
	return filter(users, func(u types.UserRecord) bool {
		return u.Gender == gender && u.PhonePrice > minPrice
	})
}

// ByNameQuoteEmail returns users whose last name starts with prefix, whose
// quote has more than minQuoteLen characters, and whose email contains the
// last name. The prefix match is case-sensitive; the email match is not.
func ByNameQuoteEmail(users []types.UserRecord, prefix string, minQuoteLen int) []types.UserRecord {
	return filter(users, func(u types.UserRecord) bool {
		return strings.HasPrefix(u.LastName, prefix) &&
			utf8.RuneCountInString(u.Quote) > minQuoteLen &&
			strings.Contains(strings.ToLower(u.Email), strings.ToLower(u.LastName))
	})
}

// ByCarAndDigitFreeEmail returns users whose car brand is in cars and whose
// email holds no decimal digit.
func ByCarAndDigitFreeEmail(users []types.UserRecord, cars []string) []types.UserRecord {
	return filter(users, func(u types.UserRecord) bool {
		return slices.Contains(cars, u.CarBrand) && !strings.ContainsAny(u.Email, "0123456789")
	})
}

// TopCitiesByUserCount groups users by city and returns the topN cities with
// the most users, together with their average income. Cities with equal
// counts keep the order in which they first appear in users.
func TopCitiesByUserCount(users []types.UserRecord, topN int) []types.CityAggregate {
	if topN <= 0 || len(users) == 0 {
		return []types.CityAggregate{}
	}

	type bucket struct {
		count       int
		totalIncome float64
	}
	order := make([]string, 0)
	buckets := make(map[string]*bucket)
	for _, u := range users {
		b, ok := buckets[u.City]
		if !ok {
			b = &bucket{}
			buckets[u.City] = b
			order = append(order, u.City)
		}
		b.count++
		b.totalIncome += u.Income
	}

	cities := make([]types.CityAggregate, 0, len(order))
	for _, city := range order {
		b := buckets[city]
		cities = append(cities, types.CityAggregate{
			City:          city,
			Count:         b.count,
			AverageIncome: b.totalIncome / float64(b.count),
		})
	}

	sort.SliceStable(cities, func(i, j int) bool {
		return cities[i].Count > cities[j].Count
	})

	if len(cities) > topN {
		cities = cities[:topN]
	}
	return cities
}

func filter(users []types.UserRecord, keep func(types.UserRecord) bool) []types.UserRecord {
	out := make([]types.UserRecord, 0)
	for _, u := range users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}
