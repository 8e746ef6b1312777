package agent

// =============================================================================
// 📦 内置 Agent roster
// =============================================================================
// 服务启动时构建一次并注册到 Registry。alex 是兜底型通用 Agent（带基础
// 相关度且从不请求重路由），其余为各领域专家。
// =============================================================================

// BuiltinProfiles 返回全部内置 Agent 的配置，按注册顺序排列。
func BuiltinProfiles() []Profile {
	return []Profile{
		alexProfile(),
		marketingProfile(),
		salesProfile(),
		growthProfile(),
		brandProfile(),
		strategicProfile(),
	}
}

// Builtin 构建全部内置 Agent。
func Builtin() []Agent {
	profiles := BuiltinProfiles()
	agents := make([]Agent, 0, len(profiles))
	for _, p := range profiles {
		agents = append(agents, MustNew(p))
	}
	return agents
}

func alexProfile() Profile {
	return Profile{
		Name:        "alex",
		Description: "General chat and coordination agent",
		Capabilities: []string{
			"general conversation",
			"task coordination",
			"agent delegation",
			"information synthesis",
			"clarification questions",
			"follow-up management",
		},
		Keywords: []string{
			"help", "hello", "hi", "hey", "general",
			"question", "explain", "understand", "coordinate",
			"overview", "summary", "synthesize", "combine",
			"clarify", "follow up", "status",
		},
		MinConfidence:    0.2,
		KeywordWeight:    0.4,
		CapabilityWeight: 0.3,
		BaseRelevance:    0.2,
		NeverReroutes:    true,
		Rules: []Rule{
			{Match: []string{"hello", "hi", "hey"},
				Reply: "Hello! I'm ALEX, your general assistant. How can I help you today?"},
			{Match: []string{"help"},
				Reply: "I can help you with various tasks or connect you with specialized agents:\n" +
					"- @marketing for marketing strategies\n" +
					"- @sales for sales inquiries\n" +
					"- @growth for growth initiatives\n" +
					"- @brand for brand management\n" +
					"What would you like to know more about?"},
			{Match: []string{"explain", "clarify", "understand"},
				Reply: "I'll help clarify that for you. Could you tell me which specific aspect you'd like me to explain?"},
			{Match: []string{"status", "follow", "update"},
				Reply: "I'll help you track the status of your requests. What specific information are you looking for?"},
		},
		ContextFallback: "I'm following our conversation. What specific aspect would you like me to help with or clarify?",
		Fallback: "I'm ALEX, your general assistant. I can help with various tasks or connect you with our specialized agents. " +
			"Feel free to ask anything, and I'll either help directly or involve the right specialist.",
	}
}

func marketingProfile() Profile {
	return Profile{
		Name:        "marketing",
		Description: "Marketing strategy and campaign specialist",
		Capabilities: []string{
			"marketing strategy",
			"campaign planning",
			"content marketing",
			"digital marketing",
			"social media",
			"email marketing",
			"marketing analytics",
			"audience targeting",
			"marketing automation",
		},
		Keywords: []string{
			"marketing", "campaign", "content", "digital",
			"social media", "email", "audience", "targeting",
			"analytics", "metrics", "roi", "engagement",
			"automation", "leads", "funnel", "conversion",
			"advertising", "promotion", "channels",
		},
		MinConfidence:    0.35,
		KeywordWeight:    0.6,
		CapabilityWeight: 0.4,
		Rules: []Rule{
			{Match: []string{"campaign", "strategy"},
				Reply: "I can help you develop effective marketing campaigns and strategies. Would you like to focus on digital, content, or traditional marketing approaches?"},
			{Match: []string{"digital", "online", "internet"},
				Reply: "Let's discuss your digital marketing needs. I can help with SEO, PPC, social media, and other digital channels. What's your primary objective?"},
			{Match: []string{"social", "media"},
				Reply: "I can assist with social media strategy, content planning, and engagement optimization. Which platforms are you most interested in?"},
			{Match: []string{"analytics", "metrics", "roi", "performance"},
				Reply: "I'll help you track and analyze marketing performance. Would you like to focus on specific KPIs or get a general overview of your marketing metrics?"},
			{Match: []string{"content"},
				Reply: "Let's develop your content marketing strategy. I can help with content planning, creation guidelines, and distribution strategies. What type of content are you looking to create?"},
			{Match: []string{"leads", "funnel", "conversion"},
				Reply: "I can help optimize your marketing funnel for better lead generation and conversion. Where in the funnel would you like to focus?"},
		},
		Fallback: "I'm your marketing specialist. I can help with campaign planning, digital marketing, content strategy, analytics, and more. What aspect of marketing would you like to explore?",
	}
}

func salesProfile() Profile {
	return Profile{
		Name:        "sales",
		Description: "Specialized agent for handling sales-related queries",
		Capabilities: []string{
			"product information",
			"pricing",
			"discounts",
			"promotions",
			"sales pipeline",
		},
		Keywords: []string{
			"price", "cost", "discount", "deal", "purchase",
			"buy", "offer", "sale", "product", "package",
			"subscription", "payment", "quote",
		},
		MinConfidence: 0.3,
		// 纯关键词评分，除数 3
		KeywordWeight:  1.0,
		KeywordDivisor: 3,
		Rules: []Rule{
			{Match: []string{"price", "cost"},
				Reply: "I can help you with pricing information. Could you specify which product you're interested in?"},
			{Match: []string{"discount", "deal", "offer"},
				Reply: "We have several ongoing promotions. I can check what discounts are available for you."},
			{Match: []string{"product"},
				Reply: "I'd be happy to provide detailed information about our products. What specific features are you looking for?"},
			{Match: []string{"purchase", "buy"},
				Reply: "Great! I can guide you through the purchase process. Would you like to know about our different packages?"},
		},
		Fallback: "I'm your sales assistant. I can help you with product information, pricing, discounts, and making a purchase. What would you like to know?",
	}
}

func growthProfile() Profile {
	return Profile{
		Name:        "growth",
		Description: "Growth strategy and optimization specialist",
		Capabilities: []string{
			"growth strategy",
			"market expansion",
			"user acquisition",
			"retention optimization",
			"growth modeling",
			"scalability planning",
			"product-market fit",
			"growth experiments",
			"monetization strategy",
		},
		Keywords: []string{
			"growth", "scale", "expansion", "acquisition",
			"retention", "churn", "monetization", "revenue",
			"optimization", "experiments", "metrics", "kpi",
			"product-market", "user base", "market share",
			"scalability", "growth hack", "viral",
		},
		MinConfidence:    0.35,
		KeywordWeight:    0.6,
		CapabilityWeight: 0.4,
		Rules: []Rule{
			{Match: []string{"strategy", "plan"},
				Reply: "I can help develop comprehensive growth strategies. Would you like to focus on user acquisition, retention, or monetization strategies?"},
			{Match: []string{"expansion", "market", "scale"},
				Reply: "Let's discuss market expansion opportunities. I can help analyze new markets, entry strategies, and scaling approaches. What's your primary expansion goal?"},
			{Match: []string{"acquisition", "users", "customers"},
				Reply: "I'll help optimize your user acquisition strategy. We can explore different channels, optimize CAC, and improve conversion rates. What's your current acquisition focus?"},
			{Match: []string{"retention", "churn"},
				Reply: "Let's work on improving user retention. I can help analyze churn patterns, develop retention strategies, and optimize the user lifecycle. Where would you like to start?"},
			{Match: []string{"experiment", "test", "optimize"},
				Reply: "I can help design and analyze growth experiments. Would you like to focus on A/B testing, funnel optimization, or feature experimentation?"},
			{Match: []string{"monetization", "revenue"},
				Reply: "Let's optimize your monetization strategy. We can explore pricing models, revenue optimization, and value proposition enhancement. What's your current monetization challenge?"},
		},
		Fallback: "I'm your growth specialist. I can help with user acquisition, retention optimization, market expansion, and monetization strategies. What growth challenge would you like to tackle?",
	}
}

func brandProfile() Profile {
	return Profile{
		Name:        "brand",
		Description: "Brand strategy and management specialist",
		Capabilities: []string{
			"brand strategy",
			"brand identity",
			"brand positioning",
			"brand voice",
			"visual identity",
			"brand guidelines",
			"brand messaging",
			"brand experience",
			"brand reputation",
			"brand consistency",
		},
		Keywords: []string{
			"brand", "identity", "positioning", "voice",
			"visual", "logo", "design", "guidelines",
			"messaging", "reputation", "values", "personality",
			"perception", "experience", "consistency", "story",
			"narrative", "image", "awareness",
		},
		MinConfidence:    0.35,
		KeywordWeight:    0.6,
		CapabilityWeight: 0.4,
		Rules: []Rule{
			{Match: []string{"strategy", "positioning"},
				Reply: "I can help develop your brand strategy and positioning. Would you like to focus on market positioning, brand differentiation, or value proposition?"},
			{Match: []string{"identity", "visual", "logo", "design"},
				Reply: "Let's work on your brand identity. I can help with visual elements, design principles, and brand guidelines. What aspect of your brand identity needs attention?"},
			{Match: []string{"voice", "messaging", "communication"},
				Reply: "I'll help define and refine your brand voice and messaging strategy. Would you like to focus on tone of voice, key messages, or communication guidelines?"},
			{Match: []string{"experience"},
				Reply: "Let's enhance your brand experience. We can work on customer touchpoints, brand interactions, and experience consistency. Where would you like to start?"},
			{Match: []string{"reputation", "perception"},
				Reply: "I can help manage and enhance your brand reputation. Would you like to focus on reputation monitoring, management strategies, or improvement initiatives?"},
			{Match: []string{"guidelines"},
				Reply: "I'll help develop comprehensive brand guidelines. This can include visual standards, voice guidelines, and usage rules. What specific aspects need documentation?"},
			{Match: []string{"awareness", "recognition"},
				Reply: "Let's work on building brand awareness. We can develop strategies for increasing visibility and recognition in your target market. What are your awareness goals?"},
		},
		Fallback: "I'm your brand specialist. I can help with brand strategy, identity, positioning, voice, and reputation management. What aspect of your brand would you like to develop?",
	}
}

func strategicProfile() Profile {
	return Profile{
		Name:        "strategic",
		Description: "Strategic planning and business strategy specialist",
		Capabilities: []string{
			"business strategy",
			"market analysis",
			"competitive analysis",
			"growth planning",
			"risk assessment",
		},
		Keywords: []string{
			"strategy", "plan", "market", "growth", "competition",
			"risk", "opportunity", "analysis", "forecast", "trend",
			"swot", "vision", "mission", "objective", "goal",
		},
		MinConfidence:    0.4,
		KeywordWeight:    0.7,
		CapabilityWeight: 0.3,
		KeywordDivisor:   3,
		DeflectReply:     "I'm not confident I can provide the best response to this query.",
		Rules: []Rule{
			{Match: []string{"market", "competition"},
				Reply: "I can help analyze market conditions and competitive landscape. Would you like a specific market analysis or competitor comparison?"},
			{Match: []string{"risk", "swot"},
				Reply: "I can assist with risk assessment and SWOT analysis. What specific aspects would you like to evaluate?"},
			{Match: []string{"growth", "opportunity"},
				Reply: "Let's explore growth opportunities. I can help identify market gaps, expansion strategies, and potential opportunities."},
			{Match: []string{"plan", "objective", "goal"},
				Reply: "I'll help you develop strategic plans and objectives. Would you like to focus on short-term or long-term planning?"},
		},
		ContextTemplate: "Based on our discussion about %s, how can I help with your strategic planning needs?",
		Fallback:        "I'm your strategic planning assistant. I can help with market analysis, risk assessment, growth planning, and competitive strategy. What would you like to focus on?",
	}
}
