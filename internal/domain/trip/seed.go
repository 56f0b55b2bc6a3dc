package trip

// StarterSchedule returns the built-in itinerary used when no saved trip
// exists yet. Returned fresh on every call so callers can mutate their copy.
func StarterSchedule() []DaySchedule {
	return []DaySchedule{
		{
			ID:        "day1",
			Date:      "01/27",
			DayOfWeek: "週二",
			Weather:   Weather{Temp: 8, Condition: WeatherCloudy, FeelsLike: 5},
			Items: []ItineraryItem{
				{
					ID:        "1",
					Type:      ItineraryFlight,
					Name:      "抵達成田機場 (MM620)",
					StartTime: "06:30",
					EndTime:   "07:30",
					Notes:     "Peach MM620 抵達第一航廈。領取 WiFi/SIM 卡。",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 45,
						Details:         "[KS 京成Skyliner] 成田空港(T1) -> 京成上野 | 正面口出站",
					},
				},
				{
					ID:           "2",
					Type:         ItineraryHotel,
					Name:         "ホテルサンルート“ステラ”上野",
					StartTime:    "09:00",
					Notes:        "先寄放行李。入住時間為 15:00 後。位於JR上野入谷口旁。",
					LocationLink: "https://maps.google.com/?q=Hotel+Sunroute+Stella+Ueno",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 20,
						Details:         "[G 銀座線] 上野(G16) -> 銀座(G09) | 上野由 9號出口(電梯) 進站 -> 銀座 A13出口",
					},
				},
				{
					ID:           "3",
					Type:         ItineraryFood,
					Name:         "東京焼肉いのうえ 銀座店",
					StartTime:    "11:00",
					Notes:        "★ 已預約 11:00。A5 黑毛和牛燒肉。",
					LocationLink: "https://maps.google.com/?q=Tokyo+Yakiniku+Inoue+Ginza",
					TransportToNext: &TransportToNext{
						Type:            TransportWalk,
						DurationMinutes: 10,
						Details:         "步行至 GINZA SIX (約5分)",
					},
				},
				{
					ID:        "4",
					Type:      ItineraryShopping,
					Name:      "銀座商圈",
					StartTime: "13:00",
					Notes:     "GINZA SIX、Uniqlo、Dover Street Market。",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 20,
						Details:         "[M 丸之內線] 銀座(M16) -> 新宿(M08) | 銀座 C4出口進站 -> 新宿 B12b出口(電梯)",
					},
				},
				{
					ID:        "5",
					Type:      ItineraryShopping,
					Name:      "新宿商圈",
					StartTime: "16:00",
					Notes:     "Lumine、伊勢丹、Flags。逛冬季折扣季。",
					TransportToNext: &TransportToNext{
						Type:            TransportWalk,
						DurationMinutes: 10,
						Details:         "步行至新宿西口 (約8分)",
					},
				},
				{
					ID:           "6",
					Type:         ItineraryFood,
					Name:         "牛たん 荒 新宿西口店",
					StartTime:    "19:00",
					Notes:        "★ 已預約 19:00。牛舌專賣店。",
					LocationLink: "https://maps.google.com/?q=Gyutan+Ara+Shinjuku",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 35,
						Details:         "[M 丸之內線] 新宿(M08) -> 赤坂見附(轉乘) -> [G 銀座線] -> 上野(G16) | 出口1(電梯) 回飯店",
					},
				},
			},
		},
		{
			ID:        "day2",
			Date:      "01/28",
			DayOfWeek: "週三",
			Weather:   Weather{Temp: 10, Condition: WeatherSunny, FeelsLike: 8},
			Items: []ItineraryItem{
				{
					ID:        "7",
					Type:      ItinerarySightseeing,
					Name:      "上野恩賜公園 / アメ横",
					StartTime: "10:00",
					Notes:     "飯店附近晨間散步。阿美橫丁商店街。",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 15,
						Details:         "[G 銀座線] 上野(G16) -> 新橋(G08) | 上野 9號出口(電梯) -> 新橋 3號出口",
					},
				},
				{
					ID:           "8",
					Type:         ItineraryFood,
					Name:         "資生堂パーラー 銀座本店",
					StartTime:    "11:30",
					Notes:        "★ 已預約 11:30。經典蛋包飯 (近新橋/銀座)。",
					LocationLink: "https://maps.google.com/?q=Shiseido+Parlour+Ginza",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 20,
						Details:         "[G 銀座線] 新橋(G08) -> 表參道(G02) | 新橋 1號出口 -> 表參道 A2出口",
					},
				},
				{
					ID:        "9",
					Type:      ItineraryShopping,
					Name:      "渋谷 / 表参道",
					StartTime: "14:00",
					Notes:     "Parco、宮下公園 (Miyashita Park)、原宿貓街。",
					TransportToNext: &TransportToNext{
						Type:            TransportWalk,
						DurationMinutes: 15,
						Details:         "沿貓街步行至澀谷",
					},
				},
				{
					ID:          "10",
					Type:        ItinerarySightseeing,
					Name:        "SHIBUYA SKY",
					StartTime:   "16:30",
					Notes:       "東京日落美景 (建議事前購票)。",
					TicketPrice: 2500,
					TransportToNext: &TransportToNext{
						Type:            TransportWalk,
						DurationMinutes: 5,
						Details:         "步行至 Scramble Square 樓下",
					},
				},
				{
					ID:        "11",
					Type:      ItineraryFood,
					Name:      "澀谷晚餐",
					StartTime: "19:00",
					Notes:     "澀谷周邊文字燒或居酒屋。",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 30,
						Details:         "[G 銀座線] 澀谷(G01) -> 上野(G16) | 直達免轉乘 -> 出口1(電梯)",
					},
				},
			},
		},
		{
			ID:        "day3",
			Date:      "01/29",
			DayOfWeek: "週四",
			Weather:   Weather{Temp: 7, Condition: WeatherCloudy, FeelsLike: 4},
			Items: []ItineraryItem{
				{
					ID:           "12",
					Type:         ItinerarySightseeing,
					Name:         "浅草寺 / 雷門",
					StartTime:    "10:00",
					Notes:        "參拜觀音、逛仲見世通商店街。",
					LocationLink: "https://maps.google.com/?q=Senso-ji",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 20,
						Details:         "[G 銀座線] 淺草(G19) -> [Z 半藏門線] 押上(Z14) | 需站外轉乘或步行",
					},
				},
				{
					ID:           "13",
					Type:         ItineraryShopping,
					Name:         "東京スカイツリータウン",
					StartTime:    "13:00",
					Notes:        "東京晴空塔城 (Solamachi)、寶可夢中心。",
					LocationLink: "https://maps.google.com/?q=Tokyo+Skytree",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 35,
						Details:         "[Z 半藏門線] 押上(Z14) -> 神保町(Z07)轉 [I 三田線] -> 水道橋(I11) | A2出口",
					},
				},
				{
					ID:        "14",
					Type:      ItineraryFood,
					Name:      "晚餐 / 輕食",
					StartTime: "17:00",
					Notes:     "演唱會前於東京巨蛋城附近用餐。",
					TransportToNext: &TransportToNext{
						Type:            TransportWalk,
						DurationMinutes: 5,
						Details:         "步行入場 (22-25門)",
					},
				},
				{
					ID:           "15",
					Type:         ItinerarySightseeing,
					Name:         "LADY GAGA 演唱會",
					StartTime:    "19:00",
					EndTime:      "22:00",
					Notes:        "地點：東京ドーム (Tokyo Dome)。17:00 開場。",
					LocationLink: "https://maps.google.com/?q=Tokyo+Dome",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 25,
						Details:         "[E 大江戶線] 春日(E07) -> 上野御徒町(E09) | 步行回飯店",
					},
				},
			},
		},
		{
			ID:        "day4",
			Date:      "01/30",
			DayOfWeek: "週五",
			Weather:   Weather{Temp: 8, Condition: WeatherSunny, FeelsLike: 6},
			Items: []ItineraryItem{
				{
					ID:        "16",
					Type:      ItineraryHotel,
					Name:      "退房 / 前往機場",
					StartTime: "07:00",
					Notes:     "前往京成上野站搭乘 Skyliner。",
					TransportToNext: &TransportToNext{
						Type:            TransportTrain,
						DurationMinutes: 45,
						Details:         "[KS 京成Skyliner] 京成上野 -> 成田空港(T1) | 全車指定席",
					},
				},
				{
					ID:           "17",
					Type:         ItineraryFlight,
					Name:         "搭機返台 (MM623)",
					StartTime:    "11:05",
					Notes:        "成田第一航廈出發。預計 14:30 抵達桃園。",
					LocationLink: "https://maps.google.com/?q=Narita+Airport",
				},
			},
		},
	}
}

// Flights returns the static flight legs shown on the info view.
func Flights() []FlightInfo {
	return []FlightInfo{
		{
			Type:          "OUTBOUND",
			AirportCode:   "台北 (T1) -> 成田 (T1)",
			FlightNumber:  "Peach MM620",
			DepartureTime: "02:25",
			ArrivalTime:   "06:30",
			Duration:      "3小時 05分",
		},
		{
			Type:          "INBOUND",
			AirportCode:   "成田 (T1) -> 台北 (T1)",
			FlightNumber:  "Peach MM623",
			DepartureTime: "11:05",
			ArrivalTime:   "14:30",
			Duration:      "4小時 25分",
		},
	}
}

// Hotel returns the static accommodation card for the info view.
func Hotel() HotelInfo {
	return HotelInfo{
		Name:      "上野斯特拉飯店",
		LocalName: "ホテルサンルート“ステラ”上野",
		Address:   "〒110-0005 東京都台東区上野７丁目１−１",
		Phone:     "+81 3-5806-1200",
		MapLink:   "https://maps.google.com/?q=Hotel+Sunroute+Stella+Ueno",
	}
}
