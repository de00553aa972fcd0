//go:build e2e

package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
)

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

func TestSite(t *testing.T) {
	t.Log("start autotests")
	suite.Run(t, &SiteSuite{})
}
