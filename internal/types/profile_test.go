package types

import (
	"testing"

	"resumegen/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "minimal profile",
			input: `{"name":"Ada Lovelace","email":"ada@example.com","education":"BSc Mathematics","job_description":"Backend engineer"}`,
		},
		{
			name:  "full profile",
			input: `{"name":"Ada","email":"ada@example.com","phone":"+44 1","github":"https://github.com/ada","linkedin":"","skills":"Go, SQL","education":"BSc","work_experience":"Analyst at Acme","job_description":"SRE"}`,
		},
		{
			name:    "missing job description",
			input:   `{"name":"Ada","email":"ada@example.com","education":"BSc"}`,
			wantErr: true,
		},
		{
			name:    "blank name",
			input:   `{"name":"   ","email":"ada@example.com","education":"BSc","job_description":"SRE"}`,
			wantErr: true,
		},
		{
			name:    "bad email",
			input:   `{"name":"Ada","email":"not-an-email","education":"BSc","job_description":"SRE"}`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			input:   `{"name":"Ada","email":"ada@example.com","education":"BSc","job_description":"SRE","skills":["Go"]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `name: Ada`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := ParseProfile([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidProfile), "error = %v", err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, profile.Name)
		})
	}
}

func TestParseProfileTrimsFields(t *testing.T) {
	profile, err := ParseProfile([]byte(`{"name":" Ada ","email":"ada@example.com","education":"BSc\n","job_description":" SRE","work_experience":"  "}`))
	require.NoError(t, err)

	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, "BSc", profile.Education)
	assert.Equal(t, "SRE", profile.JobDescription)
	assert.False(t, profile.HasWorkExperience())
}

func TestCandidateProfileValidate(t *testing.T) {
	p := &CandidateProfile{Name: "Ada", Email: "ada@example.com", Education: "BSc", JobDescription: "SRE"}
	assert.NoError(t, p.Validate())

	p.Education = ""
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "education")
}
