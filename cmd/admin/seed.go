package main

import (
	"alumnihub/backend/internal/auth"
	"alumnihub/backend/internal/config"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lib/pq"
)

type seedMentor struct {
	name, email, batch, company, position, bio string
	capacity, sessionMinutes                   int
	expertise, days, slots, topics, levels     []string
}

var sampleMentors = []seedMentor{
	{
		name: "Sarah Johnson", email: "sarah.johnson@example.com", batch: "Class of 2015",
		company: "Tech Corp", position: "Senior Software Engineer",
		bio:       "Passionate about helping early-career developers transition into tech leadership roles.",
		capacity:  5,
		expertise: []string{"Career Growth", "Technical Skills", "Leadership", "JavaScript", "React"},
		days:      []string{"Monday", "Wednesday", "Friday"},
		slots:     []string{"6:00 PM - 8:00 PM", "9:00 AM - 11:00 AM"},
		topics:    []string{"Career Development", "Technical Interview Prep", "Leadership Skills"},
		levels:    []string{"beginner", "intermediate"}, sessionMinutes: 60,
	},
	{
		name: "Michael Chen", email: "michael.chen@example.com", batch: "Class of 2013",
		company: "Innovation Labs", position: "Product Manager",
		bio:       "Former entrepreneur helping alumni launch and scale their startups.",
		capacity:  4,
		expertise: []string{"Product Strategy", "Entrepreneurship", "Networking", "Business Development"},
		days:      []string{"Tuesday", "Thursday"},
		slots:     []string{"7:00 PM - 9:00 PM"},
		topics:    []string{"Product Management", "Startup Strategy", "Fundraising"},
		levels:    []string{"intermediate", "advanced"}, sessionMinutes: 90,
	},
	{
		name: "Priya Sharma", email: "priya.sharma@example.com", batch: "Class of 2016",
		company: "AI Solutions", position: "Data Scientist",
		bio:       "Helping students transition from academia to industry data science roles.",
		capacity:  6,
		expertise: []string{"Data Science", "Machine Learning", "Research", "Python", "AI"},
		days:      []string{"Monday", "Tuesday", "Thursday", "Saturday"},
		slots:     []string{"5:00 PM - 7:00 PM", "10:00 AM - 12:00 PM"},
		topics:    []string{"Machine Learning", "Data Analysis", "Career in AI", "Research Papers"},
		levels:    []string{"beginner", "intermediate", "advanced"}, sessionMinutes: 60,
	},
	{
		name: "David Kumar", email: "david.kumar@example.com", batch: "Class of 2012",
		company: "Global Consulting", position: "Senior Consultant",
		bio:       "Helping alumni break into consulting and navigate corporate careers.",
		capacity:  3,
		expertise: []string{"Business Strategy", "Consulting", "Finance", "MBA Prep"},
		days:      []string{"Wednesday", "Saturday"},
		slots:     []string{"8:00 AM - 10:00 AM", "6:00 PM - 8:00 PM"},
		topics:    []string{"Management Consulting", "Case Interview Prep", "Career Transitions"},
		levels:    []string{"beginner", "intermediate"}, sessionMinutes: 60,
	},
	{
		name: "Emily Rodriguez", email: "emily.rodriguez@example.com", batch: "Class of 2014",
		company: "Design Studio", position: "UX Design Lead",
		bio:       "Passionate about mentoring aspiring designers and helping them build strong portfolios.",
		capacity:  5,
		expertise: []string{"UX Design", "Product Design", "Design Thinking", "Figma", "User Research"},
		days:      []string{"Monday", "Wednesday", "Friday"},
		slots:     []string{"7:00 PM - 9:00 PM"},
		topics:    []string{"Portfolio Review", "UX Career Path", "Design Systems"},
		levels:    []string{"beginner", "intermediate"}, sessionMinutes: config.DefaultSessionDuration,
	},
}

var samplePosts = []struct{ title, content, category string }{
	{
		"We're Hiring: Senior Full-Stack Developer at TechCorp",
		"My company is looking for a Senior Full-Stack Developer. We work with React, Node.js and AWS, remote-first. Happy to answer questions or refer you.",
		"Career Opportunities",
	},
	{
		"Successfully Transitioned from Engineering to Product Management",
		"After 5 years as a software engineer I moved to product management. A technical background helps, communication matters more than you think. Ask me anything.",
		"Career Opportunities",
	},
	{
		"Launched My AI SaaS Startup - Lessons Learned",
		"Start with a clear problem, not a solution. Early customer feedback is gold. Would love to connect with other founders!",
		"Startup Ideas",
	},
	{
		"Python vs Go for Backend Development?",
		"Architecting a microservices system with high throughput and real-time processing. The team knows Python better. What would you choose and why?",
		"Tech Talk",
	},
	{
		"Looking for a Mentor in Cloud Architecture",
		"Mid-level backend engineer moving into cloud architecture and DevOps. Looking for guidance on AWS certification and architecture patterns.",
		"Mentorship",
	},
}

var sampleEvents = []struct {
	title, description, slot, location, category string
	inDays                                       int
}{
	{"Tech Leadership Summit", "Join industry leaders for insights on modern tech leadership and innovation strategies.", "10:00 AM - 4:00 PM", "Virtual Event", "Networking", 14},
	{"Career Workshop: AI & ML", "Hands-on workshop covering AI/ML fundamentals and career opportunities.", "2:00 PM - 5:00 PM", "Online", "Workshop", 28},
	{"Annual Alumni Reunion", "Reconnect with your batchmates and celebrate memories at our annual reunion.", "6:00 PM - 10:00 PM", "Campus Auditorium", "Reunion", 45},
	{"Startup Pitch Night", "Watch alumni entrepreneurs pitch their startups and network with investors.", "7:00 PM - 9:00 PM", "Innovation Hub", "Entrepreneurship", 60},
}

// seed fills an empty installation with sample data. what is "all", "mentors",
// "posts" or "events". Existing mentors are kept and posts or events are only
// added to empty tables, so running it twice changes nothing.
func seed(ctx context.Context, s adminStore, what string, password func() (string, error), now time.Time, w io.Writer) error {
	steps := map[string]func() error{
		"mentors": func() error { return seedMentors(ctx, s, password, w) },
		"posts":   func() error { return seedPosts(ctx, s, w) },
		"events":  func() error { return seedEvents(ctx, s, now, w) },
	}
	if what == "all" {
		for _, name := range []string{"mentors", "posts", "events"} {
			if err := steps[name](); err != nil {
				return fmt.Errorf("seed %s: %w", name, err)
			}
		}
		return nil
	}
	step, ok := steps[what]
	if !ok {
		return fmt.Errorf("unknown seed target %q", what)
	}
	return step()
}

func seedMentors(ctx context.Context, s adminStore, password func() (string, error), w io.Writer) error {
	var hash string
	created := 0
	for _, m := range sampleMentors {
		_, err := s.GetUserByEmail(ctx, m.email)
		if err == nil {
			fmt.Fprintf(w, "mentor %s exists, skipped\n", m.email)
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		if hash == "" {
			pw, err := password()
			if err != nil {
				return err
			}
			if hash, err = auth.HashPassword(pw); err != nil {
				return err
			}
		}

		u := &models.User{
			Name:              m.name,
			Email:             m.email,
			PasswordHash:      hash,
			Batch:             m.batch,
			Role:              models.RoleMentor,
			Bio:               m.bio,
			Company:           m.company,
			Position:          m.position,
			Expertise:         pq.StringArray(m.expertise),
			IsMentorAvailable: true,
			MentorCapacity:    m.capacity,
			IsEmailVerified:   true,
			Availability: models.Availability{
				Days:                 pq.StringArray(m.days),
				TimeSlots:            pq.StringArray(m.slots),
				PreferredMeetingType: models.MeetingVideo,
			},
			MentorshipPreferences: models.MentorshipPreferences{
				Topics:          pq.StringArray(m.topics),
				ExperienceLevel: pq.StringArray(m.levels),
				SessionDuration: m.sessionMinutes,
			},
		}
		if err := s.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("create %s: %w", m.email, err)
		}
		created++
	}
	fmt.Fprintf(w, "%d mentors created\n", created)
	return nil
}

func seedPosts(ctx context.Context, s adminStore, w io.Writer) error {
	existing, err := s.ListPosts(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Fprintln(w, "posts exist, skipped")
		return nil
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return errors.New("no users to author posts, seed mentors first")
	}

	for i, p := range samplePosts {
		post := &models.Post{
			AuthorID: users[i%len(users)].ID,
			Title:    p.title,
			Content:  p.content,
			Category: p.category,
		}
		if err := s.CreatePost(ctx, post); err != nil {
			return fmt.Errorf("create post %q: %w", p.title, err)
		}
	}
	fmt.Fprintf(w, "%d posts created\n", len(samplePosts))
	return nil
}

func seedEvents(ctx context.Context, s adminStore, now time.Time, w io.Writer) error {
	existing, err := s.ListEvents(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Fprintln(w, "events exist, skipped")
		return nil
	}

	day := now.UTC().Truncate(24 * time.Hour)
	for _, e := range sampleEvents {
		ev := &models.Event{
			Title:       e.title,
			Description: e.description,
			Date:        day.AddDate(0, 0, e.inDays),
			Time:        e.slot,
			Location:    e.location,
			Category:    e.category,
		}
		if err := s.CreateEvent(ctx, ev); err != nil {
			return fmt.Errorf("create event %q: %w", e.title, err)
		}
	}
	fmt.Fprintf(w, "%d events created\n", len(sampleEvents))
	return nil
}
