package showdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func c(rank uint8, suit Suit) Card { return Card{Rank: rank, Suit: suit} }

func TestIndexCardBijectionRoundTrip(t *testing.T) {
	for i := Index(1); i <= 52; i++ {
		card, err := i.Decode()
		require.NoError(t, err)
		back, err := IndexOf(card)
		require.NoError(t, err)
		require.Equal(t, i, back)
	}
}

func TestEvaluate5Categories(t *testing.T) {
	cases := []struct {
		name  string
		hand  []Card
		want  HandCategory
		ties  [5]uint8
	}{
		{"highCard", []Card{c(14, Clubs), c(9, Diamonds), c(7, Hearts), c(4, Spades), c(2, Clubs)}, HighCard, [5]uint8{14, 9, 7, 4, 2}},
		{"onePair", []Card{c(9, Clubs), c(9, Diamonds), c(7, Hearts), c(4, Spades), c(2, Clubs)}, OnePair, [5]uint8{9, 7, 4, 2, 0}},
		{"twoPair", []Card{c(9, Clubs), c(9, Diamonds), c(4, Hearts), c(4, Spades), c(2, Clubs)}, TwoPair, [5]uint8{9, 4, 2, 0, 0}},
		{"trips", []Card{c(9, Clubs), c(9, Diamonds), c(9, Hearts), c(4, Spades), c(2, Clubs)}, Trips, [5]uint8{9, 4, 2, 0, 0}},
		{"straight", []Card{c(9, Clubs), c(8, Diamonds), c(7, Hearts), c(6, Spades), c(5, Clubs)}, Straight, [5]uint8{9, 0, 0, 0, 0}},
		{"wheel", []Card{c(14, Clubs), c(2, Diamonds), c(3, Hearts), c(4, Spades), c(5, Clubs)}, Straight, [5]uint8{5, 0, 0, 0, 0}},
		{"flush", []Card{c(14, Clubs), c(9, Clubs), c(7, Clubs), c(4, Clubs), c(2, Clubs)}, Flush, [5]uint8{14, 9, 7, 4, 2}},
		{"fullHouse", []Card{c(9, Clubs), c(9, Diamonds), c(9, Hearts), c(4, Spades), c(4, Clubs)}, FullHouse, [5]uint8{9, 4, 0, 0, 0}},
		{"quads", []Card{c(9, Clubs), c(9, Diamonds), c(9, Hearts), c(9, Spades), c(4, Clubs)}, Quads, [5]uint8{9, 4, 0, 0, 0}},
		{"straightFlush", []Card{c(9, Clubs), c(8, Clubs), c(7, Clubs), c(6, Clubs), c(5, Clubs)}, StraightFlush, [5]uint8{9, 0, 0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := evaluate5(tc.hand)
			require.NoError(t, err)
			require.Equal(t, tc.want, r.Category)
			require.Equal(t, tc.ties, r.Tiebreakers)
		})
	}
}

func TestEvaluate5RejectsDuplicateCards(t *testing.T) {
	_, err := evaluate5([]Card{c(9, Clubs), c(9, Clubs), c(7, Hearts), c(4, Spades), c(2, Clubs)})
	require.Error(t, err)
}

func TestEvaluate7PicksBestOfTwentyOne(t *testing.T) {
	// Board contributes a straight flush; hole cards are irrelevant kickers.
	board := []Card{c(9, Clubs), c(8, Clubs), c(7, Clubs), c(6, Clubs), c(5, Clubs)}
	hole := []Card{c(2, Diamonds), c(3, Hearts)}
	r, err := Evaluate7(append(append([]Card{}, board...), hole...))
	require.NoError(t, err)
	require.Equal(t, StraightFlush, r.Category)
}

// S6: board [2d,7c,Jh]; A=(Ah,Ks), B=(Kh,Kd), C=(2h,3h); winner = B (a pair
// of kings beats a pair of twos and ace-high; the board is extended here
// to 5 cards with 9s,4c to exercise Winners end to end).
func TestScenarioS6ShowdownWinner(t *testing.T) {
	board := []Card{c(2, Diamonds), c(7, Clubs), c(11, Hearts), c(9, Spades), c(4, Clubs)}
	hole := map[int32][2]Card{
		0: {c(14, Hearts), c(13, Spades)}, // A: Ah Ks
		1: {c(13, Hearts), c(13, Diamonds)}, // B: Kh Kd -> pair of kings
		2: {c(2, Hearts), c(3, Hearts)}, // C: 2h 3h -> pair of twos
	}
	winners, scores, err := Winners(board, hole)
	require.NoError(t, err)
	require.Equal(t, []int32{1}, winners)
	require.Greater(t, scores[1], scores[0])
	require.Greater(t, scores[1], scores[2])
}

func TestWinnersSplitsOnTie(t *testing.T) {
	board := []Card{c(14, Clubs), c(13, Diamonds), c(12, Hearts), c(11, Spades), c(10, Clubs)}
	hole := map[int32][2]Card{
		0: {c(2, Hearts), c(3, Hearts)},
		1: {c(4, Hearts), c(5, Hearts)},
	}
	winners, _, err := Winners(board, hole)
	require.NoError(t, err)
	require.ElementsMatch(t, []int32{0, 1}, winners)
}

func TestPackScoreOrdersByCategoryThenTiebreak(t *testing.T) {
	pair, err := evaluate5([]Card{c(9, Clubs), c(9, Diamonds), c(7, Hearts), c(4, Spades), c(2, Clubs)})
	require.NoError(t, err)
	trips, err := evaluate5([]Card{c(5, Clubs), c(5, Diamonds), c(5, Hearts), c(2, Spades), c(3, Clubs)})
	require.NoError(t, err)
	require.Greater(t, PackScore(trips), PackScore(pair))
}
