package views

import (
	"testing"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
)

func TestFilterTickets(t *testing.T) {
	tickets := []datasource.Ticket{
		{ID: "INC-0001", Priority: datasource.PriorityCritical},
		{ID: "INC-0002", Priority: datasource.PriorityLow},
		{ID: "INC-0003", Priority: datasource.PriorityCritical},
	}

	all := FilterTickets(tickets, "")
	if len(all) != 3 {
		t.Errorf("unfiltered list has %d tickets, want 3", len(all))
	}

	crit := FilterTickets(tickets, datasource.PriorityCritical)
	if len(crit) != 2 {
		t.Fatalf("critical filter kept %d tickets, want 2", len(crit))
	}
	for _, tk := range crit {
		if tk.Priority != datasource.PriorityCritical {
			t.Errorf("ticket %s leaked through the critical filter", tk.ID)
		}
	}

	none := FilterTickets(tickets, datasource.PriorityMedium)
	if len(none) != 0 {
		t.Errorf("medium filter kept %d tickets, want 0", len(none))
	}
}
