package clients

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"migration-reconciler/core/metrics"
	"migration-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	dir     string
	source  string
	target  string
	output  string
	service *Service
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:    dir,
		source: filepath.Join(dir, "source.csv"),
		target: filepath.Join(dir, "target.csv"),
		output: filepath.Join(dir, "out", "report.csv"),
	}

	svc, err := NewServiceFromConfig(Config{
		Source:     f.source,
		Target:     f.target,
		Output:     f.output,
		Delimiter:  ",",
		Duplicates: string(reconcile.DuplicatesReport),
		CacheTTL:   ttl,
	}, Dependencies{
		Metrics: metrics.NewManager(metrics.Config{Enabled: true, Namespace: "test"}),
		Logger:  zap.NewNop(),
	})
	require.NoError(t, err)
	f.service = svc
	return f
}

func (f *fixture) write(t *testing.T, path string, rows ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(csvOf(rows...)), 0o644))
}

func (f *fixture) report(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.output)
	require.NoError(t, err)
	return string(data)
}

const (
	row100Active   = "100,Ada Lovelace,ada@example.com,555-0100,Active,2023-04-09,4999.90"
	row100Inactive = "100,Ada Lovelace,ada@example.com,555-0100,Inactive,2023-04-09,4999.90"
	row101         = "101,Alan Turing,alan@example.com,555-0101,Pending Review,2021-06-23,120.00"
	row200         = "200,Grace Hopper,grace@example.com,555-0200,Active,2024-01-01,300.00"
)

func TestService_Run(t *testing.T) {
	tests := []struct {
		name    string
		source  []string
		target  []string
		want    string
		written bool
	}{
		{
			name:    "StatusChanged",
			source:  []string{row100Active},
			target:  []string{row100Inactive},
			want:    "100,Value Mismatch,account_status,Active,Inactive\n",
			written: true,
		},
		{
			name:    "DroppedRecord",
			source:  []string{row100Active, row101},
			target:  []string{row101},
			want:    "100,Record Missing in Target,N/A,Record Exists,NULL\n",
			written: true,
		},
		{
			name:    "NewRecord",
			source:  []string{row100Active},
			target:  []string{row100Active, row200},
			want:    "200,Record Missing in Source,N/A,NULL,Record Exists\n",
			written: true,
		},
		{
			name:   "Identical",
			source: []string{row100Active, row101},
			target: []string{row101, row100Active},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)
			f.write(t, f.source, tt.source...)
			f.write(t, f.target, tt.target...)

			result, err := f.service.Run(context.Background(), RunRequest{})
			require.NoError(t, err)
			assert.NotEmpty(t, result.RunID)
			assert.Equal(t, tt.written, result.Written)
			assert.Equal(t, !tt.written, result.NoDiscrepancies())

			if !tt.written {
				_, statErr := os.Stat(f.output)
				assert.True(t, os.IsNotExist(statErr), "no report must be written")
				return
			}
			assert.Equal(t, f.output, result.Output)
			assert.Equal(t, strings.Join(ReportHeader, ",")+"\n"+tt.want, f.report(t))
		})
	}
}

func TestService_RunIsIdempotent(t *testing.T) {
	f := newFixture(t, 0)
	f.write(t, f.source, row100Active, row101, "102,X,,1,Active,,")
	f.write(t, f.target, row100Inactive, row200, "102,X,x@y.z,1,Active,2020-01-01,")

	_, err := f.service.Run(context.Background(), RunRequest{})
	require.NoError(t, err)
	first := f.report(t)

	_, err = f.service.Run(context.Background(), RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, first, f.report(t))

	assert.Equal(t, strings.Join(ReportHeader, ",")+"\n"+
		"100,Value Mismatch,account_status,Active,Inactive\n"+
		"101,Record Missing in Target,N/A,Record Exists,NULL\n"+
		"102,Value Mismatch,email,,x@y.z\n"+
		"102,Value Mismatch,registration_date,,2020-01-01\n"+
		"200,Record Missing in Source,N/A,NULL,Record Exists\n", first)
}

func TestService_RunOverrides(t *testing.T) {
	f := newFixture(t, 0)
	other := filepath.Join(f.dir, "other.csv")
	out := filepath.Join(f.dir, "custom.csv")
	f.write(t, f.source, row100Active)
	f.write(t, other, row100Inactive)

	result, err := f.service.Run(context.Background(), RunRequest{Target: other, Output: out})
	require.NoError(t, err)
	assert.Equal(t, other, result.Target)
	assert.FileExists(t, out)
	assert.NoFileExists(t, f.output)
}

func TestService_RunMissingInput(t *testing.T) {
	f := newFixture(t, 0)
	f.write(t, f.target, row100Active)

	_, err := f.service.Run(context.Background(), RunRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrInputNotFound)
	assert.Contains(t, err.Error(), "source")
	assert.Contains(t, err.Error(), "generate")
	assert.NoFileExists(t, f.output)
}

func TestService_RunSchemaMismatch(t *testing.T) {
	f := newFixture(t, 0)
	f.write(t, f.source, row100Active)
	require.NoError(t, os.WriteFile(f.target, []byte("client_id,full_name\n100,Ada Lovelace\n"), 0o644))

	_, err := f.service.Run(context.Background(), RunRequest{})
	assert.ErrorIs(t, err, reconcile.ErrSchemaMismatch)
	assert.NoFileExists(t, f.output)
}

func TestService_RunDuplicates(t *testing.T) {
	f := newFixture(t, 0)
	f.write(t, f.source, row100Active, row100Active)
	f.write(t, f.target, row100Active)

	result, err := f.service.Run(context.Background(), RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Report.Summary.Duplicates)
	assert.Contains(t, f.report(t), "100,Duplicate Key in Source,N/A,Duplicate Record,N/A\n")

	_, err = f.service.Run(context.Background(), RunRequest{Duplicates: reconcile.DuplicatesReject})
	assert.ErrorIs(t, err, reconcile.ErrDuplicateKey)

	_, err = f.service.Run(context.Background(), RunRequest{Duplicates: "merge"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_RunCoercionIssues(t *testing.T) {
	f := newFixture(t, 0)
	f.write(t, f.source, "100,A,a@x.io,1,Active,2023-01-01,abc")
	f.write(t, f.target, "100,A,a@x.io,1,Active,2023-01-01,abc")

	result, err := f.service.Run(context.Background(), RunRequest{})
	require.NoError(t, err)
	assert.True(t, result.NoDiscrepancies(), "identical raw values are equal")
	require.Len(t, result.Issues, 2)
	assert.Equal(t, reconcile.SideSource, result.Issues[0].Side)
	assert.Equal(t, reconcile.SideTarget, result.Issues[1].Side)
}

func TestService_CompareCaches(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.write(t, f.source, row100Active)
	f.write(t, f.target, row100Active)

	result, err := f.service.Compare(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.True(t, result.NoDiscrepancies())

	f.write(t, f.target, row100Inactive)

	cached, err := f.service.Compare(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.True(t, cached.NoDiscrepancies(), "cached snapshots are reused")

	f.service.Invalidate("", "")
	fresh, err := f.service.Compare(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.Len(t, fresh.Report.Entries, 1)
	assert.NoFileExists(t, f.output, "compare never writes a report")
}

func TestService_CompareOne(t *testing.T) {
	f := newFixture(t, 0)
	f.write(t, f.source, row100Active, row101)
	f.write(t, f.target, row100Inactive, row101, row200)

	entries, found, err := f.service.CompareOne(context.Background(), "", "", 100)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, entries, 1)
	assert.Equal(t, "account_status", entries[0].Field)

	entries, found, err = f.service.CompareOne(context.Background(), "", "", 101)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, entries)

	_, found, err = f.service.CompareOne(context.Background(), "", "", 999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestService_CompareReaders(t *testing.T) {
	f := newFixture(t, 0)

	result, err := f.service.CompareReaders(context.Background(),
		strings.NewReader(csvOf(row100Active)),
		strings.NewReader(csvOf(row100Active, row200)),
		"",
	)
	require.NoError(t, err)
	require.Len(t, result.Report.Entries, 1)
	assert.Equal(t, reconcile.RecordMissingInSource, result.Report.Entries[0].Type)
	assert.Equal(t, "upload:source", result.Source)
}
