package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/UserNotepad/internal/models"
)

// Default operator created on an empty database.
const (
	DefaultOperatorUsername = "admin"
	DefaultOperatorPassword = "admin12345"
)

func samplePerson(name, surname string, year int, month time.Month, day int, sex models.Sex) models.PersonInput {
	birth := models.NewDate(year, month, day)
	return models.PersonInput{Name: name, Surname: surname, BirthDate: &birth, Sex: sex}
}

var samplePersons = []models.PersonInput{
	samplePerson("Maria", "Skłodowska-Curie", 1867, time.November, 7, models.SexFemale),
	samplePerson("Fryderyk", "Chopin", 1810, time.March, 1, models.SexMale),
	samplePerson("Jan", "Matejko", 1838, time.June, 24, models.SexMale),
	samplePerson("Lech", "Wałęsa", 1943, time.September, 29, models.SexMale),
	samplePerson("Wisława", "Szymborska", 1923, time.July, 2, models.SexFemale),
	samplePerson("Adam", "Mickiewicz", 1798, time.December, 24, models.SexMale),
	samplePerson("Henryk", "Sienkiewicz", 1846, time.May, 5, models.SexMale),
	samplePerson("Czesław", "Miłosz", 1911, time.June, 30, models.SexMale),
	samplePerson("Ignacy", "Paderewski", 1860, time.November, 6, models.SexMale),
	samplePerson("Stanisław", "Lema", 1921, time.September, 12, models.SexMale),
	samplePerson("Maria", "Konopnicka", 1842, time.May, 23, models.SexFemale),
	samplePerson("Jerzy", "Grotowski", 1933, time.August, 11, models.SexMale),
}

// Seed fills an empty database with sample persons and the default operator.
// Each part is skipped when its table already holds rows.
func Seed(ctx context.Context, auth *AuthService, persons *PersonService, log *zap.Logger) error {
	n, err := persons.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed persons: %w", err)
	}
	if n == 0 {
		for _, in := range samplePersons {
			if _, err := persons.Create(ctx, in); err != nil {
				return fmt.Errorf("seed persons: %w", err)
			}
		}
		log.Info("sample persons seeded", zap.Int("count", len(samplePersons)))
	}

	hasOperators, err := auth.HasOperators(ctx)
	if err != nil {
		return fmt.Errorf("seed operator: %w", err)
	}
	if !hasOperators {
		err := auth.Register(ctx, models.RegisterInput{
			Username:       DefaultOperatorUsername,
			Nickname:       DefaultOperatorUsername,
			Password:       DefaultOperatorPassword,
			RepeatPassword: DefaultOperatorPassword,
		})
		if err != nil {
			return fmt.Errorf("seed operator: %w", err)
		}
	}
	return nil
}
