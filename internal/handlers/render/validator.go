package render

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Video id is exactly 11 chars. Anything after it must start a query part.
var youtubeURLRe = regexp.MustCompile(`(?i)^(https?://)?(www\.)?(youtube\.com/(watch\?v=|shorts/)|youtu\.be/)[\w-]{11}([&?].*)?$`)

func configureValidator(validate *validator.Validate) {
	_ = validate.RegisterValidation("youtube_url", validateYouTubeURL)
	validate.RegisterTagNameFunc(useJSONTagNames)
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

func validateYouTubeURL(fl validator.FieldLevel) bool {
	return youtubeURLRe.MatchString(fl.Field().String())
}
