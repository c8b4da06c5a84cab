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

import "time"

const day = 24 * time.Hour

func utc(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
}

// amazonFormat is the layout of the ratings-only Amazon review dumps.
var amazonFormat = Format{
	Header:          []string{"user_id", "item_id", "rating", "timestamp"},
	UserColumn:      "user_id",
	ItemColumn:      "item_id",
	TimestampColumn: "timestamp",
}

// Profiles returns a fresh copy of the known dataset profiles.
func Profiles() []Profile {
	return []Profile{
		{
			ID:       "adressa",
			Filename: "adressa_one_week.csv",
			Format: Format{
				UserColumn:      "userId",
				ItemColumn:      "id",
				TimestampColumn: "time",
			},
			TTest:       utc(2017, time.January, 7, 12),
			TValidation: utc(2017, time.January, 6, 12),
			DeltaOut:    12 * time.Hour,
		},
		{
			ID:       "cosmeticsshop",
			Filename: "cosmeticsshop_views.csv",
			Format: Format{
				UserColumn:      "user_id",
				ItemColumn:      "product_id",
				TimestampColumn: "event_time",
				TimeLayout:      "2006-01-02 15:04:05 MST",
			},
			TTest:       utc(2020, time.February, 15, 0),
			TValidation: utc(2020, time.February, 1, 0),
			DeltaOut:    14 * day,
		},
		{
			ID:       "recsys2015",
			Filename: "yoochoose-clicks.dat",
			Format: Format{
				Header:          []string{"session_id", "timestamp", "item_id", "category"},
				UserColumn:      "session_id",
				ItemColumn:      "item_id",
				TimestampColumn: "timestamp",
				TimeLayout:      time.RFC3339Nano,
			},
			TTest:       utc(2014, time.September, 15, 0),
			TValidation: utc(2014, time.September, 1, 0),
			DeltaOut:    14 * day,
			// Items first, then users
			Filters: []Filter{
				MinUsersPerItem{Min: 50},
				MinItemsPerUser{Min: 3},
			},
		},
		{
			ID:       "netflix",
			Filename: "netflix.csv",
			Format: Format{
				UserColumn:      "user_id",
				ItemColumn:      "item_id",
				TimestampColumn: "timestamp",
			},
			TTest:       utc(2005, time.December, 1, 0),
			TValidation: utc(2005, time.November, 1, 0),
			DeltaOut:    14 * day,
		},
		{
			ID:          "amazon_games",
			Filename:    "ratings_Video_Games.csv",
			Format:      amazonFormat,
			TTest:       utc(2014, time.June, 1, 0),
			TValidation: utc(2014, time.May, 1, 0),
			DeltaOut:    30 * day,
		},
		{
			ID:          "amazon_toys_and_games",
			Filename:    "ratings_Toys_and_Games.csv",
			Format:      amazonFormat,
			TTest:       utc(2014, time.June, 1, 0),
			TValidation: utc(2014, time.May, 1, 0),
			DeltaOut:    30 * day,
		},
	}
}
