package memory_test

import (
	"testing"

	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/memory"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/storetest"
)

func TestBillRepo(t *testing.T) {
	storetest.RunBillRepository(t, func(*testing.T) repository.BillRepository {
		return memory.NewBillRepository()
	})
}

func TestMenuRepo(t *testing.T) {
	storetest.RunMenuRepository(t, func(*testing.T) repository.MenuRepository {
		return memory.NewMenuRepository()
	})
}
