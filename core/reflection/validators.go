package reflection

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tafakari/core"
)

var (
	sentimentTag  = "sentiment"
	sentimentText = "sentiment must be one of positive, neutral or negative"

	ratingTag  = "rating"
	ratingText = "please rate your satisfaction from 1 to 5"
)

// InitValidators registers reflection validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(sentimentTag, sentimentValidation)
	core.RegisterCustomTranslation(validate, translator, sentimentTag, sentimentText)

	_ = validate.RegisterValidation(ratingTag, ratingValidation)
	core.RegisterCustomTranslation(validate, translator, ratingTag, ratingText)
}

// Custom Validators

func sentimentValidation(fl validator.FieldLevel) bool {
	return Sentiment(fl.Field().String()).Valid()
}

// ratingValidation only allows satisfaction ratings within MinSatisfaction..MaxSatisfaction.
func ratingValidation(fl validator.FieldLevel) bool {
	v := fl.Field().Int()
	return v >= MinSatisfaction && v <= MaxSatisfaction
}
