// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Fixed marketing copy for the public pages. Editable text lives in the
// content sections instead.

type titledText struct {
	Title       string
	Description string
}

type practiceArea struct {
	Title       string
	Summary     string
	Description string
	Details     []string
	Note        string
}

type caseResult struct {
	Amount      string
	Type        string
	Description string
}

type testimonial struct {
	Quote  string
	Author string
	Type   string
	Amount string
}

type faq struct {
	Question string
	Answer   string
}

type processStep struct {
	Number      int
	Title       string
	Description string
}

var trustBadges = []string{
	"$500M+ Recovered",
	"10,000+ Cases Won",
	"No Fee Unless We Win",
	"Available 24/7",
}

var practiceAreas = []practiceArea{
	{
		Title:       "Car Accidents",
		Summary:     "Aggressive representation for auto collision victims. We handle all insurance negotiations.",
		Description: "Car accidents can cause life-altering injuries. From whiplash to traumatic brain injuries, we fight to get you full compensation for medical bills, lost wages, and pain and suffering.",
		Details: []string{
			"Rear-end collisions and chain-reaction accidents",
			"Intersection and T-bone crashes",
			"Head-on collisions",
			"Hit-and-run accidents",
			"Rideshare (Uber/Lyft) accidents",
			"Uninsured and underinsured motorist claims",
		},
		Note: "Don't give a recorded statement to the insurance company before speaking with us. They will use it against you.",
	},
	{
		Title:       "Truck Accidents",
		Summary:     "Taking on trucking companies and their insurers for maximum compensation.",
		Description: "Commercial truck accidents are complex cases involving multiple parties: trucking companies, manufacturers, and insurance carriers. We have the resources to take on big trucking corporations.",
		Details: []string{
			"18-wheeler and semi-truck accidents",
			"Delivery truck crashes",
			"Overloaded or improperly loaded cargo",
			"Driver fatigue and hours-of-service violations",
			"Defective truck equipment",
			"Hazardous materials accidents",
		},
		Note: "Trucking companies have teams of lawyers working immediately after a crash. You need experienced representation fast.",
	},
	{
		Title:       "Motorcycle Accidents",
		Summary:     "Protecting riders' rights and fighting bias against motorcyclists.",
		Description: "Motorcyclists face unique dangers on the road and often suffer severe injuries. We fight the bias against riders and work to get you the compensation you deserve.",
		Details: []string{
			"Lane-splitting and lane-change accidents",
			"Left-turn accidents",
			"Road hazard crashes",
			"Helmet and gear defects",
			"Drunk driving collisions",
			"Dooring accidents in urban areas",
		},
		Note: "Insurance companies often try to blame motorcyclists. We know how to counter these tactics.",
	},
	{
		Title:       "Slip & Fall",
		Summary:     "Holding property owners accountable for dangerous conditions.",
		Description: "Property owners have a duty to maintain safe conditions. When they fail, and you're injured, we hold them accountable for their negligence.",
		Details: []string{
			"Wet floor and spill accidents",
			"Broken stairs and handrails",
			"Poor lighting in parking lots",
			"Snow and ice accumulation",
			"Elevator and escalator malfunctions",
			"Security failures and assaults",
		},
		Note: "Evidence disappears quickly in premises cases. Report your injury immediately and document everything.",
	},
	{
		Title:       "Wrongful Death",
		Summary:     "Compassionate advocacy for families who have lost loved ones.",
		Description: "Losing a loved one is devastating. While no amount of money can bring them back, we fight to hold responsible parties accountable and secure your family's financial future.",
		Details: []string{
			"Fatal car, truck, and motorcycle accidents",
			"Workplace fatalities",
			"Medical malpractice deaths",
			"Nursing home neglect",
			"Product liability deaths",
			"Criminal acts and negligent security",
		},
		Note: "Wrongful death claims have strict time limits. Contact us as soon as possible to protect your rights.",
	},
	{
		Title:       "Medical Malpractice",
		Summary:     "Holding healthcare providers responsible for negligence.",
		Description: "When healthcare providers fail to meet the standard of care, patients suffer. We work with medical experts to prove negligence and fight for fair compensation.",
		Details: []string{
			"Surgical errors and wrong-site surgery",
			"Misdiagnosis and delayed diagnosis",
			"Medication errors",
			"Birth injuries",
			"Emergency room negligence",
			"Hospital-acquired infections",
		},
		Note: "Medical malpractice cases are complex. We advance all costs and only get paid if you win.",
	},
	{
		Title:       "Workplace Injuries",
		Summary:     "Pursuing third-party claims beyond workers' compensation.",
		Description: "Injured on the job? You may be entitled to workers' compensation AND a personal injury claim if a third party was responsible.",
		Details: []string{
			"Construction site accidents",
			"Industrial equipment injuries",
			"Repetitive stress injuries",
			"Toxic exposure",
			"Falls from heights",
			"Third-party liability claims",
		},
		Note: "Don't just accept workers' comp. You may have additional claims worth pursuing.",
	},
}

// homePracticeAreas is the number of practice areas shown on the home page.
const homePracticeAreas = 6

var headlineResults = []caseResult{
	{Amount: "$12.5M", Type: "Truck Accident Settlement"},
	{Amount: "$8.2M", Type: "Medical Malpractice Verdict"},
	{Amount: "$5.7M", Type: "Wrongful Death Settlement"},
	{Amount: "$3.4M", Type: "Car Accident Settlement"},
}

var caseResults = []caseResult{
	{Amount: "$12,500,000", Type: "Truck Accident", Description: "Commercial truck ran a red light, causing catastrophic injuries to our client. We took the case to trial and won."},
	{Amount: "$8,200,000", Type: "Medical Malpractice", Description: "Hospital failed to diagnose a stroke, resulting in permanent brain damage. We held them accountable."},
	{Amount: "$5,700,000", Type: "Wrongful Death", Description: "Family lost their father in a construction site accident. We secured compensation for his wife and children."},
	{Amount: "$3,400,000", Type: "Car Accident", Description: "Drunk driver caused a multi-vehicle collision. Our client suffered spinal injuries requiring multiple surgeries."},
	{Amount: "$2,100,000", Type: "Motorcycle Accident", Description: "Driver failed to yield, hitting our client's motorcycle. Despite insurance company bias, we won."},
	{Amount: "$1,800,000", Type: "Slip and Fall", Description: "Grocery store failed to clean up a spill. Our client suffered a traumatic brain injury from the fall."},
}

var featuredTestimonial = testimonial{
	Quote:  "After my accident, I was overwhelmed and didn't know where to turn. Justice & Associates fought the insurance company relentlessly and got me a settlement that covered all my medical bills and then some. They changed my life.",
	Author: "Robert M.",
	Amount: "$1.2M Settlement",
}

var testimonials = []testimonial{
	{
		Quote:  "After my truck accident, I was facing mounting medical bills and couldn't work. Justice & Associates fought the trucking company and their insurers for over a year. They never gave up on me, and we won a settlement that changed my life.",
		Author: "Michael R.",
		Type:   "Truck Accident",
	},
	{
		Quote:  "The insurance company offered me $50,000 for my injuries. I thought that was fair until I spoke with Justice & Associates. They got me $1.2 million. Don't accept any offer without talking to these attorneys first.",
		Author: "Jennifer S.",
		Type:   "Car Accident",
	},
	{
		Quote:  "When my mother died due to nursing home neglect, I didn't know where to turn. The team at Justice & Associates treated us like family and fought for justice. They held the nursing home accountable.",
		Author: "David T.",
		Type:   "Wrongful Death",
	},
	{
		Quote:  "I was injured on a construction site when faulty scaffolding collapsed. My employer wanted me to just file for workers' comp, but Justice & Associates found the equipment manufacturer was liable. They got me so much more.",
		Author: "Carlos M.",
		Type:   "Workplace Injury",
	},
}

var whyChooseUs = []titledText{
	{Title: "No Upfront Costs", Description: "You pay nothing unless we win your case. We invest in your recovery."},
	{Title: "Proven Track Record", Description: "Over $500 million recovered for injury victims across the country."},
	{Title: "Aggressive Litigation", Description: "We take cases to trial when insurance companies refuse fair settlements."},
	{Title: "Personal Attention", Description: "Your case is handled by experienced attorneys, not paralegals."},
}

var faqs = []faq{
	{
		Question: "How much does it cost to hire you?",
		Answer:   "Nothing upfront. We work on a contingency fee basis, which means you pay no attorney fees unless we win your case. We only get paid when you get paid.",
	},
	{
		Question: "How long will my case take?",
		Answer:   "Every case is different. Simple cases may settle in months, while complex cases involving serious injuries or litigation can take longer. We always prioritize getting you the maximum compensation, not the fastest settlement.",
	},
	{
		Question: "What if the insurance company already made me an offer?",
		Answer:   "Do not accept any offer without consulting an attorney first. Insurance companies often make lowball offers hoping you'll accept before you understand the true value of your case. We can evaluate whether the offer is fair.",
	},
	{
		Question: "What damages can I recover?",
		Answer:   "You may be entitled to compensation for medical expenses, lost wages, pain and suffering, emotional distress, property damage, and in some cases, punitive damages. We'll evaluate all potential damages in your free consultation.",
	},
}

var credentials = []titledText{
	{Title: "Super Lawyers", Description: "Recognized 10+ consecutive years"},
	{Title: "Board Certified", Description: "Civil Trial Specialists"},
	{Title: "AV Rated", Description: "Highest Martindale-Hubbell rating"},
	{Title: "10,000+ Cases", Description: "Successfully resolved"},
}

var firmValues = []titledText{
	{Title: "Aggressive Advocacy", Description: "We don't back down from insurance companies. When they refuse to offer fair compensation, we take them to court."},
	{Title: "No Fee Unless We Win", Description: "We invest our own resources in your case. You pay nothing upfront and nothing at all if we don't recover for you."},
	{Title: "Personal Attention", Description: "Your case is handled by experienced attorneys, not passed off to paralegals. You have direct access to your legal team."},
	{Title: "Maximum Compensation", Description: "We don't take the easy settlement. We fight for every dollar you deserve, including future damages and pain and suffering."},
}

var process = []processStep{
	{Number: 1, Title: "Free Consultation", Description: "We review your case and explain your options. No obligation."},
	{Number: 2, Title: "Investigation", Description: "We gather evidence, interview witnesses, and build your case."},
	{Number: 3, Title: "Negotiation", Description: "We demand full compensation from insurance companies."},
	{Number: 4, Title: "Trial If Needed", Description: "If they won't pay fair, we take them to court."},
}

var trustPoints = []string{
	"Former insurance defense attorneys who know the insurers' playbook",
	"We advance all case costs so you pay nothing out of pocket",
	"Direct access to your attorneys, not paralegals",
	"We've taken 100+ cases to trial and won",
	"Available 24/7 for emergencies",
	"Spanish-speaking staff available",
}
