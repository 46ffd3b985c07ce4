package memory

import (
	"testing"

	"github.com/fastygo/storefront/repository/providertest"
)

func TestProvider(t *testing.T) {
	providertest.Run(t, NewProvider())
}
