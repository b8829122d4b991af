package fixtures

// Builtin devolve o dataset padrão: 20 posts de 10 usuários.
func Builtin() Dataset {
	return Dataset{
		Users: map[UserID]User{
			1:  {Name: "Albert Johnson", Avatar: Avatar{URL: "mock://sc.com/avatar.1.jpg"}},
			2:  {Name: "Beth Lee", Avatar: Avatar{URL: "mock://sc.com/avatar.2.jpg"}},
			3:  {Name: "David Charter", Avatar: Avatar{URL: "mock://sc.com/avatar.3.jpg"}},
			4:  {Name: "Mary Goldsmith", Avatar: Avatar{URL: "mock://sc.com/avatar.4.jpg"}},
			5:  {Name: "Simon Rochester", Avatar: Avatar{URL: "mock://sc.com/avatar.5.jpg"}},
			6:  {Name: "Chau Nguyen", Avatar: Avatar{URL: "mock://sc.com/avatar.6.jpg"}},
			7:  {Name: "Peter Waters", Avatar: Avatar{URL: "mock://sc.com/avatar.7.jpg"}},
			8:  {Name: "Tiffany MacDowell", Avatar: Avatar{URL: "mock://sc.com/avatar.8.jpg"}},
			9:  {Name: "Robert Stoughton", Avatar: Avatar{URL: "mock://sc.com/avatar.9.jpg"}},
			10: {Name: "Kate Benedict", Avatar: Avatar{URL: "mock://sc.com/avatar.10.jpg"}},
		},
		Posts: map[PostID]Post{
			1: {
				Date:   "2020-09-01T12:30:07Z",
				Text:   "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.",
				Images: []Image{{URL: "mock://sc.com/pic.1.jpg"}},
			},
			2: {
				Date:   "2020-08-25T22:57:07Z",
				Text:   "Megapolis, here I come! 🤲😻❤️",
				Images: []Image{{URL: "mock://sc.com/pic.2.jpg"}},
			},
			3: {
				Date:   "2020-08-20T20:20:07Z",
				Text:   "Such a beautiful night on a beach with friends, wine and dogs!",
				Images: []Image{{URL: "mock://sc.com/pic.3.jpg"}},
			},
			4: {
				Date:   "2020-08-15T12:40:07Z",
				Text:   "I made a cool wallpaper. Gonna sell it for a billion bucks at Sotheby's. OK, just donate something please.",
				Images: []Image{{URL: "mock://sc.com/pic.4.jpg"}},
			},
			5: {
				Date:   "2020-08-10T15:50:07Z",
				Text:   "I went skiing on a hot summer night hoping to see a Big Foot or a Small Paw. Shot this instead.",
				Images: []Image{{URL: "mock://sc.com/pic.5.jpg"}},
			},
			6: {
				Date:   "2020-08-05T23:54:07Z",
				Text:   "Happy New Year everyone!",
				Images: []Image{{URL: "mock://sc.com/pic.6.jpg"}},
			},
			7: {
				Date:   "2020-07-31T12:46:07Z",
				Text:   "I bought myself an island on Craigslist after getting rich on r/WallstreetBets.",
				Images: []Image{{URL: "mock://sc.com/pic.7.jpg"}},
			},
			8: {
				Date:   "2020-07-26T13:12:07Z",
				Text:   "This was the best picnic this week, BBQ FTW!",
				Images: []Image{{URL: "mock://sc.com/pic.8.jpg"}},
			},
			9: {
				Date:   "2020-07-21T09:24:07Z",
				Text:   "Walking my dog in the park in the morning",
				Images: []Image{{URL: "mock://sc.com/pic.9.jpg"}},
			},
			10: {
				Date:   "2020-07-11T13:31:07Z",
				Text:   "I was hunting with my grandfather for my 19th birthday about a year ago and we both watched a deer slam its head into a rock shatter its head. We saved a bunch of them bullets.",
				Images: []Image{{URL: "mock://sc.com/pic.10.jpg"}},
			},
			11: {
				Date:   "2020-07-06T15:10:07Z",
				Text:   "Comrades, I got my PhD in Photoshop!",
				Images: []Image{{URL: "mock://sc.com/pic.11.jpg"}},
			},
			12: {
				Date:   "2020-07-01T14:40:07Z",
				Text:   "I love driving my van in the middle of nowhere until I run out of gas. Then I go looking for another van. Movin' is livin' ✊🏿",
				Images: []Image{{URL: "mock://sc.com/pic.12.jpg"}},
			},
			13: {
				Date:   "2020-06-25T02:16:07Z",
				Text:   "I stitched together 65535 images of the Milky Way to create the most detailed photograph of our galaxy I have ever created. Enjoy!",
				Images: []Image{{URL: "mock://sc.com/pic.13.jpg"}},
			},
			14: {
				Date:   "2020-06-20T12:21:07Z",
				Text:   "Help! I lost my way, somebody please extract geo tags from this photo and tell me where I am! PLEASE!!!",
				Images: []Image{{URL: "mock://sc.com/pic.14.jpg"}},
			},
			15: {
				Date:   "2020-06-15T11:06:07Z",
				Text:   "Alps are great! This is Alps, right?",
				Images: []Image{{URL: "mock://sc.com/pic.15.jpg"}},
			},
			16: {
				Date:   "2020-06-10T14:37:07Z",
				Text:   "Chilling in Bratislava…",
				Images: []Image{{URL: "mock://sc.com/pic.16.jpg"}},
			},
			17: {
				Date:   "2020-06-09T16:49:07Z",
				Text:   "This is my new office. The plaza is mine too. Actually, I got the whole city at a discount, that's why it looks a bit empty.",
				Images: []Image{{URL: "mock://sc.com/pic.17.jpg"}},
			},
			18: {
				Date:   "2020-06-06T14:51:07Z",
				Text:   "The best view of the Eye Fall tower you can get",
				Images: []Image{{URL: "mock://sc.com/pic.18.jpg"}},
			},
			19: {
				Date:   "2020-06-02T10:20:07Z",
				Text:   "What a view outside my hotel room! I ❤️ it!",
				Images: []Image{{URL: "mock://sc.com/pic.19.jpg"}},
			},
			20: {
				Date:   "2020-06-01T16:26:07Z",
				Text:   "Košice is incredibly beautiful in June!",
				Images: []Image{{URL: "mock://sc.com/pic.20.jpg"}},
			},
		},
		Owners: map[PostID]UserID{
			1: 1, 2: 2, 3: 2, 4: 3, 5: 4, 6: 2, 7: 5, 8: 6, 9: 4, 10: 7, 11: 8, 12: 9, 13: 2, 14: 10, 15: 3, 16: 2, 17: 5, 18: 3, 19: 2, 20: 7,
		},
	}
}
