package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villageveggies/backend/internal/models"
	"github.com/villageveggies/backend/internal/validate"
)

func TestAdminConfig(t *testing.T) {
	cfg, target, err := adminConfig("postgres://vv:pw@localhost:5432/villageveggies?sslmode=disable", "postgres")
	require.NoError(t, err)
	assert.Equal(t, "villageveggies", target)
	assert.Equal(t, "postgres", cfg.Database)
	assert.Equal(t, "vv", cfg.User)

	_, _, err = adminConfig("postgres://vv:pw@localhost:5432/postgres", "postgres")
	assert.Error(t, err)
}

func TestDemoGrowersAreValid(t *testing.T) {
	growers, err := demoGrowers(func(p string) (string, error) { return "hashed:" + p, nil })
	require.NoError(t, err)
	require.NotEmpty(t, growers)

	emails := map[string]bool{}
	for _, g := range growers {
		assert.False(t, emails[g.Email], "duplicate email %s", g.Email)
		emails[g.Email] = true
		assert.Equal(t, "hashed:"+demoPassword, g.PasswordHash)
		assert.True(t, validate.Zip(g.Zip), g.Zip)
		for _, c := range g.Crops {
			assert.True(t, validate.Zip(c.Zip), c.Zip)
			assert.True(t, c.Status == "" || models.ValidStatus(c.Status), c.Status)
		}
	}
}

func TestDemoGrowersHashError(t *testing.T) {
	boom := errors.New("boom")
	_, err := demoGrowers(func(string) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
}

func TestRootCmdRequiresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--seed"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
}
