package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/user"
)

func TestService_Ensure(t *testing.T) {
	t.Run("NormalizesProfile", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().
			UpsertUser(gomock.Any(), user.Profile{UserID: 7, Username: "mario", FirstName: "Mario"}).
			Return(&user.User{UserID: 7, Username: "mario"}, nil)

		got, err := user.NewService(repo, nil).Ensure(context.Background(), user.Profile{UserID: 7, Username: " @mario", FirstName: "Mario "})
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.UserID)
	})

	t.Run("RejectsMissingID", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		_, err := user.NewService(user.NewMockRepository(ctrl), nil).Ensure(context.Background(), user.Profile{})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_IsTrustedSeller(t *testing.T) {
	type testCase struct {
		name      string
		rep       user.Reputation
		setupList func(m *user.MockWhitelist)
		want      bool
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "TrustedByRatings",
			rep:  user.Reputation{Positive: 10, Total: 10},
			setupList: func(m *user.MockWhitelist) {
				m.EXPECT().IsWhitelisted(gomock.Any(), int64(9)).Return(false, nil)
			},
			want: true,
		},
		{
			name: "TrustedByWhitelist",
			rep:  user.Reputation{Positive: 3, Total: 5},
			setupList: func(m *user.MockWhitelist) {
				m.EXPECT().IsWhitelisted(gomock.Any(), int64(9)).Return(true, nil)
			},
			want: true,
		},
		{
			name: "NotTrusted",
			rep:  user.Reputation{Positive: 1, Total: 5},
			setupList: func(m *user.MockWhitelist) {
				m.EXPECT().IsWhitelisted(gomock.Any(), int64(9)).Return(false, nil)
			},
			want: false,
		},
		{
			name: "WhitelistError",
			rep:  user.Reputation{Positive: 1, Total: 5},
			setupList: func(m *user.MockWhitelist) {
				m.EXPECT().IsWhitelisted(gomock.Any(), int64(9)).Return(false, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			repo.EXPECT().GetUser(gomock.Any(), int64(9)).Return(&user.User{UserID: 9, Reputation: tt.rep}, nil)

			wl := user.NewMockWhitelist(ctrl)
			tt.setupList(wl)

			got, err := user.NewService(repo, wl).IsTrustedSeller(context.Background(), 9)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
