package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		method string
		url    string
		want   Tier
	}{
		{
			name:   "delete is always high",
			method: "DELETE",
			url:    "https://x.com/api/items/5",
			want:   TierHigh,
		},
		{
			name:   "delete beats low-risk url",
			method: "DELETE",
			url:    "https://x.com/products",
			want:   TierHigh,
		},
		{
			name:   "checkout keyword is high even on GET",
			method: "GET",
			url:    "https://x.com/api/checkout",
			want:   TierHigh,
		},
		{
			name:   "payment keyword on POST",
			method: "POST",
			url:    "https://x.com/api/payment/intent",
			want:   TierHigh,
		},
		{
			name:   "billing keyword",
			method: "GET",
			url:    "https://x.com/billing/history",
			want:   TierHigh,
		},
		{
			name:   "subscription keyword",
			method: "POST",
			url:    "https://x.com/api/subscription",
			want:   TierHigh,
		},
		{
			name:   "account deletion path",
			method: "POST",
			url:    "https://x.com/account/delete",
			want:   TierHigh,
		},
		{
			name:   "per-user deletion path",
			method: "POST",
			url:    "https://x.com/users/42/delete",
			want:   TierHigh,
		},
		{
			name:   "put on plain url is medium",
			method: "PUT",
			url:    "https://x.com/api/profile",
			want:   TierMedium,
		},
		{
			name:   "patch on plain url is medium",
			method: "PATCH",
			url:    "https://x.com/api/profile",
			want:   TierMedium,
		},
		{
			name:   "put on checkout url is high, keyword wins",
			method: "PUT",
			url:    "https://x.com/api/checkout/address",
			want:   TierHigh,
		},
		{
			name:   "login path is medium",
			method: "POST",
			url:    "https://x.com/login",
			want:   TierMedium,
		},
		{
			name:   "auth path is medium",
			method: "POST",
			url:    "https://x.com/auth/token",
			want:   TierMedium,
		},
		{
			name:   "register path is medium",
			method: "POST",
			url:    "https://x.com/register",
			want:   TierMedium,
		},
		{
			name:   "plain get is low",
			method: "GET",
			url:    "https://x.com/products",
			want:   TierLow,
		},
		{
			name:   "plain post is low",
			method: "POST",
			url:    "https://x.com/api/search",
			want:   TierLow,
		},
		{
			name:   "lowercase method is normalized",
			method: "delete",
			url:    "https://x.com/api/items/5",
			want:   TierHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.method, tt.url))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	pairs := [][2]string{
		{"GET", "https://x.com/products"},
		{"DELETE", "https://x.com/api/items"},
		{"PATCH", "https://x.com/api/profile"},
		{"POST", "https://x.com/api/checkout"},
	}
	for _, p := range pairs {
		first := Classify(p[0], p[1])
		second := Classify(p[0], p[1])
		assert.Equal(t, first, second, "classify(%s %s) changed between calls", p[0], p[1])
	}
}
