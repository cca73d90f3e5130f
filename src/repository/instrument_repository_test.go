package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"swiftjobs/src/model"
	"swiftjobs/src/testutil"
)

func TestInstrumentRepositoryActiveShortnames(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.Roster(t, db, "AAPL", "MSFT", "^GDAXI")
	require.NoError(t, db.Create(&model.Stock{Shortname: "OLD", IDSeason: 1}).Error)
	require.NoError(t, db.Create(&model.Index{Shortname: "^OLD", IDSeason: 1}).Error)

	names, err := NewInstrumentRepository(db).ActiveShortnames(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"AAPL", "MSFT", "^GDAXI"}, names)
}

func TestInstrumentRepositoryActiveShortnamesEmpty(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	names, err := NewInstrumentRepository(db).ActiveShortnames(context.Background())
	require.NoError(t, err)
	require.Empty(t, names)
}
