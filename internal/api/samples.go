package api

// sampleQueries are static fixtures for trying the service out.
var sampleQueries = []string{
	"What amenities are available in the apartment?",
	"What are the check-in and check-out times?",
	"Is there parking available?",
	"What are the house rules?",
	"How far is the apartment from the metro?",
	"What is the WiFi password?",
	"Are pets allowed?",
	"What is the maximum number of guests?",
	"What kitchen appliances are available?",
	"What are the safety features?",
	"Can you summarize the main features of this apartment?",
	"What makes this apartment special or unique?",
	"What are the nearby attractions and transportation options?",
}
