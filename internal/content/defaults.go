package content

// DefaultOfferings returns the bundled service lines.
func DefaultOfferings() []Offering {
	return []Offering{
		{
			ID:          "exploration",
			Title:       "Oil Exploration & Production",
			Description: "Advanced onshore and offshore exploration utilizing cutting-edge seismic technology and responsible drilling practices.",
			IconName:    "Droplets",
			Image:       "https://picsum.photos/id/1031/800/600",
		},
		{
			ID:          "refining",
			Title:       "Refining & Processing",
			Description: "State-of-the-art crude refining capabilities delivering high-quality fuels, petrochemicals, and lubricants.",
			IconName:    "Factory",
			Image:       "https://picsum.photos/id/142/800/600",
		},
		{
			ID:          "logistics",
			Title:       "Distribution & Logistics",
			Description: "Integrated pipeline systems, tanker transport fleets, and strategic storage facilities ensuring global supply chain security.",
			IconName:    "Truck",
			Image:       "https://picsum.photos/id/192/800/600",
		},
		{
			ID:          "trading",
			Title:       "Energy Trading",
			Description: "Global trading desks managing crude oil, refined products, and bulk energy supply with sophisticated risk management.",
			IconName:    "TrendingUp",
			Image:       "https://picsum.photos/id/204/800/600",
		},
		{
			ID:          "support",
			Title:       "Industrial Support Services",
			Description: "Comprehensive engineering support, equipment procurement, and maintenance services for energy infrastructure.",
			IconName:    "Wrench",
			Image:       "https://picsum.photos/id/250/800/600",
		},
	}
}

// DefaultProjects returns the bundled portfolio.
func DefaultProjects() []Project {
	return []Project{
		{
			ID:          "p1",
			Title:       "North Sea Deepwater Platform",
			Location:    "Aberdeen, UK",
			Description: "Installation of a semi-submersible production unit capable of processing 150,000 barrels per day.",
			Category:    CategoryUpstream,
			Image:       "https://picsum.photos/id/180/600/400",
		},
		{
			ID:          "p2",
			Title:       "Sahara Pipeline Expansion",
			Location:    "Algeria",
			Description: "Construction of a 500km high-pressure gas pipeline to increase export capacity to Southern Europe.",
			Category:    CategoryInfrastructure,
			Image:       "https://picsum.photos/id/234/600/400",
		},
		{
			ID:          "p3",
			Title:       "Singapore Refinery Upgrade",
			Location:    "Jurong Island, Singapore",
			Description: "Modernization of cracking units to produce cleaner, low-sulfur marine fuels compliant with IMO 2020.",
			Category:    CategoryDownstream,
			Image:       "https://picsum.photos/id/257/600/400",
		},
		{
			ID:          "p4",
			Title:       "Gulf Coast LNG Terminal",
			Location:    "Texas, USA",
			Description: "Development of a major liquefaction plant and export terminal for global LNG distribution.",
			Category:    CategoryInfrastructure,
			Image:       "https://picsum.photos/id/384/600/400",
		},
		{
			ID:          "p5",
			Title:       "Offshore Wind Integration",
			Location:    "Rotterdam, Netherlands",
			Description: "Hybrid energy project integrating offshore wind power to electrify platform operations.",
			Category:    CategoryUpstream,
			Image:       "https://picsum.photos/id/412/600/400",
		},
		{
			ID:          "p6",
			Title:       "Biofuel Processing Plant",
			Location:    "São Paulo, Brazil",
			Description: "Sustainable aviation fuel production facility utilizing agricultural feedstock.",
			Category:    CategoryDownstream,
			Image:       "https://picsum.photos/id/526/600/400",
		},
	}
}

// DefaultStats returns the bundled headline figures.
func DefaultStats() []Stat {
	return []Stat{
		{Label: "Years of Excellence", Value: "25+"},
		{Label: "Countries Operated", Value: "18"},
		{Label: "Projects Completed", Value: "140+"},
		{Label: "Barrels / Day", Value: "250k"},
	}
}
