package publisher

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "429 is rate limited",
			err:  &tgbotapi.Error{Code: 429, Message: "Too Many Requests"},
			want: ErrRateLimited,
		},
		{
			name: "retry-after hint is rate limited",
			err: &tgbotapi.Error{
				Code:               400,
				Message:            "flood control",
				ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 30},
			},
			want: ErrRateLimited,
		},
		{
			name: "401 is fatal",
			err:  &tgbotapi.Error{Code: 401, Message: "Unauthorized"},
			want: ErrFatal,
		},
		{
			name: "403 is fatal",
			err:  &tgbotapi.Error{Code: 403, Message: "bot was kicked"},
			want: ErrFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}
}

func TestClassify_TransientErrors(t *testing.T) {
	transient := []error{
		&tgbotapi.Error{Code: 500, Message: "Internal Server Error"},
		&tgbotapi.Error{Code: 400, Message: "Bad Request"},
		errors.New("connection reset"),
	}

	for _, err := range transient {
		got := classify(err)
		assert.NotErrorIs(t, got, ErrRateLimited, "%v", err)
		assert.NotErrorIs(t, got, ErrFatal, "%v", err)
	}
}
