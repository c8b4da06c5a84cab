/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package dataset

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarslab/tarsctl/internal/validation"
	"github.com/tarslab/tarsctl/internal/version"
)

func TestProfiles_Cutoffs(t *testing.T) {
	for _, p := range Profiles() {
		t.Run(p.ID, func(t *testing.T) {
			assert.True(t, p.TValidation.Before(p.TTest))
			assert.Greater(t, int64(p.DeltaOut), int64(0))
			assert.NoError(t, p.Validate())
			assert.Equal(t, time.UTC, p.TTest.Location())
		})
	}
}

func TestResolve(t *testing.T) {
	p, err := Resolve("cosmeticsshop", "/data", WithSource("https://example.com/views.csv"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "cosmeticsshop_views.csv"), p.Path())
	assert.Equal(t, "https://example.com/views.csv", p.Source)
	assert.Equal(t, int64(1581724800), p.TTest.Unix())

	_, err = Resolve("movielens", "/data")
	require.Error(t, err)
	assert.True(t, validation.IsType(err, validation.ErrUnknownDataset))

	p, err = Resolve("recsys2015", "")
	require.NoError(t, err)
	require.Len(t, p.Filters, 2)
	assert.Equal(t, MinUsersPerItem{Min: 50}, p.Filters[0])
	assert.Equal(t, MinItemsPerUser{Min: 3}, p.Filters[1])
}

func TestProfile_Validate(t *testing.T) {
	now := time.Now()
	cases := []struct {
		desc    string
		profile Profile
		valid   bool
	}{
		{desc: "Valid", profile: Profile{TTest: now, TValidation: now.Add(-time.Hour), DeltaOut: time.Hour}, valid: true},
		{desc: "EqualCutoffs", profile: Profile{TTest: now, TValidation: now, DeltaOut: time.Hour}},
		{desc: "ZeroDelta", profile: Profile{TTest: now, TValidation: now.Add(-time.Hour)}},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			err := c.profile.Validate()
			if c.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFilters_Order(t *testing.T) {
	m := NewInteractionMatrix([]Interaction{
		{User: "u1", Item: "i1", Timestamp: 1},
		{User: "u1", Item: "i2", Timestamp: 2},
		{User: "u2", Item: "i1", Timestamp: 3},
		{User: "u3", Item: "i2", Timestamp: 4},
		{User: "u3", Item: "i3", Timestamp: 5},
	})
	items, users := MinUsersPerItem{Min: 2}, MinItemsPerUser{Min: 2}

	itemsFirst := ApplyFilters(m, items, users)
	usersFirst := ApplyFilters(m, users, items)
	assert.NotEqual(t, itemsFirst.Interactions(), usersFirst.Interactions())

	assert.Equal(t, []Interaction{
		{User: "u1", Item: "i1", Timestamp: 1},
		{User: "u1", Item: "i2", Timestamp: 2},
	}, itemsFirst.Interactions())
	assert.Equal(t, []Interaction{
		{User: "u1", Item: "i2", Timestamp: 2},
		{User: "u3", Item: "i2", Timestamp: 4},
	}, usersFirst.Interactions())

	p, err := Resolve("recsys2015", "")
	require.NoError(t, err)
	for i := range p.Filters {
		switch i {
		case 0:
			assert.IsType(t, MinUsersPerItem{}, p.Filters[i])
		case 1:
			assert.IsType(t, MinItemsPerUser{}, p.Filters[i])
		}
	}
}

func TestFilters_CountDuplicates(t *testing.T) {
	m := NewInteractionMatrix([]Interaction{
		{User: "u1", Item: "i1", Timestamp: 1},
		{User: "u1", Item: "i1", Timestamp: 2},
		{User: "u2", Item: "i2", Timestamp: 3},
	})
	assert.Equal(t, 0, MinItemsPerUser{Min: 2}.Apply(m).Len())
	assert.Equal(t, 2, MinItemsPerUser{Min: 2, CountDuplicates: true}.Apply(m).Len())
	assert.Equal(t, 0, MinUsersPerItem{Min: 2}.Apply(m).Len())
}

func TestInteractionMatrix(t *testing.T) {
	m := NewInteractionMatrix([]Interaction{
		{User: "u2", Item: "i3", Timestamp: 30},
		{User: "u1", Item: "i1", Timestamp: 10},
		{User: "u1", Item: "i2", Timestamp: 20},
		{User: "u2", Item: "i1", Timestamp: 25},
	})

	users, items := m.Shape()
	assert.Equal(t, 2, users)
	assert.Equal(t, 3, items)
	first, last := m.TimeRange()
	assert.Equal(t, int64(10), first)
	assert.Equal(t, int64(30), last)

	assert.Equal(t, 2, m.Before(25).Len())
	assert.Equal(t, 2, m.Window(20, 30).Len())
	assert.Equal(t, []string{"u2"}, m.Window(25, 31).Users())
	assert.Equal(t, 2, m.ForUsers([]string{"u1"}).Len())

	firsts := m.FirstPerUser().Interactions()
	require.Len(t, firsts, 2)
	assert.Equal(t, "i1", firsts[0].Item)
	assert.Equal(t, "i1", firsts[1].Item)
	assert.Equal(t, int64(25), firsts[1].Timestamp)
}

func TestReadInteractions(t *testing.T) {
	cases := []struct {
		desc   string
		input  string
		format Format
		expect []Interaction
		err    string
	}{
		{
			desc:   "Header",
			input:  "userId,id,time\nu1,i1,100\nu2,i2,50\n",
			format: Format{UserColumn: "userId", ItemColumn: "id", TimestampColumn: "time"},
			expect: []Interaction{{User: "u2", Item: "i2", Timestamp: 50}, {User: "u1", Item: "i1", Timestamp: 100}},
		},
		{
			desc:  "Layout",
			input: "1,2014-04-07T10:51:09.277Z,214536502,0\n",
			format: Format{
				Header:          []string{"session_id", "timestamp", "item_id", "category"},
				UserColumn:      "session_id",
				ItemColumn:      "item_id",
				TimestampColumn: "timestamp",
				TimeLayout:      time.RFC3339Nano,
			},
			expect: []Interaction{{User: "1", Item: "214536502", Timestamp: 1396867869}},
		},
		{
			desc:   "FloatSeconds",
			input:  "user_id\titem_id\ttimestamp\nu1\ti1\t1.5e2\n",
			format: Format{Comma: '\t', UserColumn: "user_id", ItemColumn: "item_id", TimestampColumn: "timestamp"},
			expect: []Interaction{{User: "u1", Item: "i1", Timestamp: 150}},
		},
		{
			desc:   "MissingColumn",
			input:  "user_id,item_id\nu1,i1\n",
			format: Format{UserColumn: "user_id", ItemColumn: "item_id", TimestampColumn: "timestamp"},
			err:    `header must contain "user_id", "item_id" and "timestamp" columns`,
		},
		{
			desc:   "BadTimestamp",
			input:  "user_id,item_id,timestamp\nu1,i1,yesterday\n",
			format: Format{UserColumn: "user_id", ItemColumn: "item_id", TimestampColumn: "timestamp"},
			err:    `line 2: invalid timestamp "yesterday"`,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			m, err := ReadInteractions(strings.NewReader(c.input), &c.format)
			if c.err != "" {
				assert.EqualError(t, err, c.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, m.Interactions())
		})
	}
}

func TestCSVLoader_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("u,i,t\nu1,i1,1\nu1,i2,2\nu2,i1,3\n"), 0644))

	p := &Profile{
		ID:       "test",
		Filename: "data.csv",
		BasePath: dir,
		Format:   Format{UserColumn: "u", ItemColumn: "i", TimestampColumn: "t"},
		Filters:  []Filter{MinItemsPerUser{Min: 2}},
	}
	l := &CSVLoader{Log: logr.Discard()}
	m, err := l.Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, m.Users())

	p.Filename = "missing.csv"
	_, err = l.Load(context.Background(), p)
	assert.True(t, os.IsNotExist(err))
}

func TestCSVLoader_Fetch(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "remote.csv"), []byte("u,i,t\nu1,i1,1\n"), 0644))

	p := &Profile{
		ID:       "test",
		Filename: "local.csv",
		BasePath: filepath.Join(t.TempDir(), "nested"),
		Source:   filepath.Join(src, "remote.csv"),
		Format:   Format{UserColumn: "u", ItemColumn: "i", TimestampColumn: "t"},
	}
	l := &CSVLoader{Log: logr.Discard()}
	m, err := l.Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	assert.FileExists(t, p.Path())
}

func TestFetch_UserAgent(t *testing.T) {
	agents := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			agents <- r.UserAgent()
		}
		_, _ = io.WriteString(w, "userId,id,time\nu1,i1,1483700000\n")
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "adressa_one_week.csv")
	require.NoError(t, Fetch(context.Background(), "adressa", srv.URL+"/adressa_one_week.csv", dst))
	assert.FileExists(t, dst)
	require.Len(t, agents, 1)
	assert.Equal(t, version.UserAgent("dataset adressa"), <-agents)
}
