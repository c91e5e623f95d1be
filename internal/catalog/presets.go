package catalog

import "github.com/julianstephens/habitlog/internal/models"

var studentTrackers = []models.Tracker{
	models.NewDuration("Study Hours", 4.0, "Track daily study time across subjects").WithMeta("academic", "📚"),
	models.NewCounter("Assignments Completed", "assignments", 3, "Track completed assignments and homework").WithMeta("academic", "📝"),
	models.NewDuration("Sleep Duration", 8.0, "Monitor sleep duration (7-9 hours recommended)").WithMeta("health", "💤").WithBounds(0, 14),
	models.NewDuration("Screen Time", 3.0, "Track daily digital device usage").WithMeta("wellness", "📱"),
	models.NewCounter("Reading Pages", "pages", 20, "Track pages read daily").WithMeta("learning", "📖"),
	models.NewDuration("Exercise Time", 0.5, "Daily physical activity (30+ minutes)").WithMeta("health", "🏃"),
	models.NewCounter("Water Intake", "glasses", 8, "Track daily water consumption").WithMeta("health", "💧"),
	models.NewCounter("Meals", "meals", 3, "Track regular meal consumption").WithMeta("health", "🍽️"),
	models.NewNumeric("Daily Expenses", "dollars", 10, 0, 500, "Track pocket money and expenses").WithMeta("finance", "💰"),
	models.NewRating("Daily Mood", 5, 4, "Rate your mood and emotions").WithMeta("wellness", "😊"),
	models.NewDuration("Social Time", 2.0, "Time spent with friends and social activities").WithMeta("social", "👥"),
	models.NewDuration("Extracurricular", 1.0, "Time in clubs, sports, and hobbies").WithMeta("activities", "⚽"),
	models.NewCheckbox("Made Bed", "Did you make your bed today?").WithMeta("habits", "🛏️"),
}

var adultTrackers = []models.Tracker{
	models.NewDuration("Work Hours", 8.0, "Track daily work hours with overtime monitoring").WithMeta("work", "💼"),
	models.NewDuration("Learning Time", 1.0, "Time spent learning new skills or taking courses").WithMeta("development", "📚"),
	models.NewDuration("Exercise", 1.0, "Gym, yoga, running, or other fitness activities").WithMeta("fitness", "💪"),
	models.NewDuration("Sleep Duration", 7.0, "Track sleep hours (6-8 hours recommended)").WithMeta("health", "💤").WithBounds(0, 14),
	models.NewRating("Sleep Quality", 5, 4, "Rate how well you slept").WithMeta("health", "🛌"),
	models.NewCounter("Water Intake", "glasses", 10, "Stay hydrated (10 glasses daily)").WithMeta("health", "💧"),
	models.NewCounter("Meals", "meals", 3, "Track breakfast, lunch, and dinner regularity").WithMeta("nutrition", "🍽️"),
	models.NewDuration("Leisure Screen Time", 2.0, "Non-work screen time and digital detox").WithMeta("wellness", "📱"),
	models.NewNumeric("Daily Expenses", "dollars", 50, 0, 1000, "Track daily spending").WithMeta("finance", "💰"),
	models.NewNumeric("Daily Savings", "dollars", 20, 0, 1000, "Amount saved today").WithMeta("finance", "💵"),
	models.NewDuration("Reading Time", 0.5, "Books, articles, podcasts, learning content").WithMeta("growth", "📖"),
	models.NewCounter("Social Interactions", "calls/meetings", 2, "Calls to family/friends, social meetups").WithMeta("social", "📞"),
	models.NewRating("Daily Mood", 5, 4, "Rate your overall mood and emotional state").WithMeta("mental_health", "😊"),
	models.NewRating("Stress Level", 5, 2, "Rate your stress (1=low, 5=high)").WithMeta("mental_health", "😰"),
	models.NewDuration("Self-Care Time", 0.5, "Meditation, hobbies, relaxation activities").WithMeta("wellness", "🧘"),
	models.NewDuration("Side Project Time", 1.0, "Personal projects and growth activities").WithMeta("growth", "🚀"),
	models.NewCheckbox("Morning Routine", "Completed morning routine?").WithMeta("habits", "🌅"),
	models.NewCheckbox("Evening Routine", "Completed evening routine?").WithMeta("habits", "🌙"),
	models.NewCounter("Junk Food Avoided", "times", 0, "Track avoidance of junk food and bad habits").WithMeta("habits", "🚫"),
}

var seniorTrackers = []models.Tracker{
	models.NewCheckbox("Morning Medication", "Took morning medicines?").WithMeta("medication", "💊"),
	models.NewCheckbox("Afternoon Medication", "Took afternoon medicines?").WithMeta("medication", "💊"),
	models.NewCheckbox("Evening Medication", "Took evening medicines?").WithMeta("medication", "💊"),
	models.NewNumeric("Blood Pressure (Systolic)", "mmHg", 120, 80, 200, "Track systolic blood pressure reading").WithMeta("vitals", "❤️"),
	models.NewNumeric("Blood Pressure (Diastolic)", "mmHg", 80, 50, 130, "Track diastolic blood pressure reading").WithMeta("vitals", "❤️"),
	models.NewNumeric("Blood Sugar", "mg/dL", 100, 50, 400, "Track blood glucose levels").WithMeta("vitals", "🩸"),
	models.NewNumeric("Weight", "kg", 70, 30, 200, "Weekly weight monitoring").WithMeta("vitals", "⚖️"),
	models.NewDuration("Walking Time", 0.5, "Daily walking and light exercise").WithMeta("activity", "🚶"),
	models.NewDuration("Light Exercise", 0.25, "Stretching, chair exercises, light movement").WithMeta("activity", "🧘"),
	models.NewDuration("Sleep Duration", 7.0, "Track hours of sleep").WithMeta("health", "💤").WithBounds(0, 14),
	models.NewRating("Sleep Quality", 5, 4, "Rate how well you slept").WithMeta("health", "🛌"),
	models.NewCounter("Water Intake", "glasses", 8, "Track daily water consumption").WithMeta("health", "💧"),
	models.NewCounter("Meals", "meals", 3, "Regular eating schedule tracking").WithMeta("nutrition", "🍽️"),
	models.NewCounter("Social Contacts", "interactions", 2, "Calls, visits from family and friends").WithMeta("social", "👥"),
	models.NewDuration("Hobby Time", 1.0, "Gardening, reading, crafts, hobbies").WithMeta("leisure", "🎨"),
	models.NewDuration("Mental Exercise", 0.5, "Puzzles, brain games, memory activities").WithMeta("cognitive", "🧩"),
	models.NewRating("Daily Mood", 5, 4, "Daily emotional check-in").WithMeta("mental_health", "😊"),
	models.NewRating("Pain Level", 10, 2, "Rate pain/discomfort level (1=low, 10=severe)").WithMeta("health", "😣"),
	models.NewCheckbox("Doctor Appointment", "Did you have/attend a doctor appointment?").WithMeta("healthcare", "👨‍⚕️"),
}
