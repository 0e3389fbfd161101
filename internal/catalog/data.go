package catalog

import "patrio-api/internal/geo"

// seed：启动时装载的只读目录；前 5 条为城市导览数据，后 3 条用于离线识别（带别名与特征词）
var seed = []Building{
	{
		ID:              "1",
		Type:            "casarão",
		Name:            "Palacete dos Andradas",
		Year:            "1920",
		Style:           "Art Nouveau",
		Description:     "Majestoso palacete construído pela família Andradas, representando o auge da arquitetura Art Nouveau no Brasil. Suas fachadas ornamentadas e vitrais coloridos são testemunhas de uma época de grande opulência e sofisticação arquitetônica.",
		Address:         "Rua das Flores, 123 - Centro Histórico",
		Location:        "Centro Histórico",
		HistoricalValue: "Alto",
		CurrentUse:      "Museu Municipal",
		Coordinates:     geo.Coordinate{Latitude: -23.5505, Longitude: -46.6333},
		Architect:       "Francisco de Paula Ramos de Azevedo",
		Materials:       []string{"Pedra", "Mármore", "Madeira nobre", "Ferro fundido"},
		Events: []string{
			"1920: Inauguração do palacete",
			"1930: Residência da família Andradas",
			"1980: Tombamento pelo patrimônio histórico",
			"2000: Conversão para museu",
		},
	},
	{
		ID:              "2",
		Type:            "casarão",
		Name:            "Vila Modernista",
		Year:            "1935",
		Style:           "Modernismo",
		Description:     "Exemplo único da arquitetura modernista brasileira, esta vila representa a transição entre o estilo eclético e o moderno. Suas linhas limpas e integração com a natureza marcaram uma nova era na arquitetura residencial.",
		Address:         "Avenida Paulista, 456 - Bela Vista",
		Location:        "Bela Vista",
		HistoricalValue: "Médio-Alto",
		CurrentUse:      "Residencial",
		Coordinates:     geo.Coordinate{Latitude: -23.5631, Longitude: -46.6544},
		Architect:       "Gregori Warchavchik",
		Materials:       []string{"Concreto armado", "Vidro", "Aço", "Madeira"},
		Events: []string{
			"1935: Construção da vila",
			"1950: Primeira exposição de arte moderna",
			"1970: Restauração e modernização",
			"1990: Inclusão no roteiro arquitetônico",
		},
	},
	{
		ID:              "3",
		Type:            "casarão",
		Name:            "Solar dos Barões",
		Year:            "1890",
		Style:           "Neoclássico",
		Description:     "Imponente solar que serviu como residência de importantes barões do café. Sua arquitetura neoclássica com elementos barrocos reflete a influência europeia na arquitetura brasileira do século XIX.",
		Address:         "Rua do Comércio, 789 - Sé",
		Location:        "Sé",
		HistoricalValue: "Alto",
		CurrentUse:      "Centro Cultural",
		Coordinates:     geo.Coordinate{Latitude: -23.5489, Longitude: -46.6388},
		Architect:       "Desconhecido",
		Materials:       []string{"Pedra de cantaria", "Mármore italiano", "Madeira de lei", "Ouro"},
		Events: []string{
			"1890: Construção do solar",
			"1900: Residência dos barões do café",
			"1920: Abandono após crise do café",
			"1980: Restauração e abertura ao público",
		},
	},
	{
		ID:              "4",
		Type:            "casarão",
		Name:            "Chácara das Acácias",
		Year:            "1915",
		Style:           "Eclético",
		Description:     "Chácara urbana que combina elementos de diferentes estilos arquitetônicos, criando uma composição única e harmoniosa. Seus jardins e pomares eram famosos na região.",
		Address:         "Rua das Acácias, 321 - Vila Madalena",
		Location:        "Vila Madalena",
		HistoricalValue: "Médio",
		CurrentUse:      "Restaurante e Eventos",
		Coordinates:     geo.Coordinate{Latitude: -23.5587, Longitude: -46.6924},
		Architect:       "Ramos de Azevedo",
		Materials:       []string{"Tijolo aparente", "Telha francesa", "Madeira", "Ferro"},
		Events: []string{
			"1915: Construção da chácara",
			"1940: Conversão em escola",
			"1970: Abandono e degradação",
			"2005: Restauração e nova função",
		},
	},
	{
		ID:              "5",
		Type:            "casarão",
		Name:            "Palacete das Artes",
		Year:            "1925",
		Style:           "Art Déco",
		Description:     "Elegante palacete em estilo Art Déco, com suas formas geométricas e decoração luxuosa. Representa a influência francesa na arquitetura brasileira dos anos 1920.",
		Address:         "Rua Augusta, 654 - Consolação",
		Location:        "Consolação",
		HistoricalValue: "Alto",
		CurrentUse:      "Galeria de Arte",
		Coordinates:     geo.Coordinate{Latitude: -23.5517, Longitude: -46.6614},
		Architect:       "Victor Dubugras",
		Materials:       []string{"Concreto", "Mármore", "Bronze", "Vidro colorido"},
		Events: []string{
			"1925: Inauguração do palacete",
			"1930: Residência de artistas",
			"1960: Funcionamento como ateliê",
			"1990: Conversão em galeria",
		},
	},
	{
		ID:              "procopio_gomes",
		Key:             "procopio_gomes",
		Type:            "casarão",
		Name:            "Casarão de Procópio Gomes",
		Aliases:         []string{"procopio gomes", "casarão procopio", "palacete procopio"},
		Characteristics: []string{"colonial", "portuguese", "mansion", "palace", "historical"},
		Style:           "Colonial Português",
		Year:            "1750-1800",
		Description:     "Casarão histórico de Procópio Gomes, um dos mais importantes exemplares da arquitetura colonial portuguesa no Brasil.",
		Address:         "Centro Histórico",
		Location:        "Centro Histórico",
		HistoricalValue: "Alto",
		CurrentUse:      "Patrimônio histórico",
		Coordinates:     geo.Coordinate{Latitude: -23.5478, Longitude: -46.6339},
		Architect:       "Arquitetura colonial tradicional",
		Materials:       []string{"Pedra", "Madeira", "Tijolo"},
		Events: []string{
			"Construído no século XVIII",
			"Residência de Procópio Gomes",
			"Tombado como patrimônio histórico",
			"Exemplo da arquitetura colonial brasileira",
		},
	},
	{
		ID:              "solar_do_baron",
		Key:             "solar_do_baron",
		Type:            "casarão",
		Name:            "Solar do Barão",
		Aliases:         []string{"solar baron", "palacete baron", "casarão baron"},
		Characteristics: []string{"neoclassical", "palace", "mansion", "aristocratic"},
		Style:           "Neoclássico",
		Year:            "1850-1870",
		Description:     "Solar neoclássico que pertenceu ao Barão de Itapetininga, exemplar da arquitetura aristocrática do século XIX.",
		Address:         "Centro Histórico",
		Location:        "Centro Histórico",
		HistoricalValue: "Alto",
		CurrentUse:      "Museu/Centro cultural",
		Coordinates:     geo.Coordinate{Latitude: -23.5450, Longitude: -46.6360},
		Architect:       "Arquitetura neoclássica",
		Materials:       []string{"Pedra", "Mármore", "Madeira nobre"},
		Events: []string{
			"Construído para o Barão de Itapetininga",
			"Exemplo da arquitetura neoclássica",
			"Centro de poder político e social",
			"Tombado como patrimônio nacional",
		},
	},
	{
		ID:              "palacete_art_deco",
		Key:             "palacete_art_deco",
		Type:            "casarão",
		Name:            "Palacete Art Déco",
		Aliases:         []string{"art deco", "palacete deco", "moderno deco"},
		Characteristics: []string{"art deco", "geometric", "modern", "luxury"},
		Style:           "Art Déco",
		Year:            "1920-1940",
		Description:     "Palacete Art Déco com linhas geométricas e decoração luxuosa, representante do modernismo arquitetônico brasileiro.",
		Address:         "Bela Vista",
		Location:        "Bela Vista",
		HistoricalValue: "Médio",
		CurrentUse:      "Residencial/Comercial",
		Coordinates:     geo.Coordinate{Latitude: -23.5605, Longitude: -46.6520},
		Architect:       "Estilo Art Déco",
		Materials:       []string{"Concreto", "Metal", "Vidro"},
		Events: []string{
			"Construído no período Art Déco",
			"Influência do modernismo europeu",
			"Arquitetura de transição",
			"Exemplo da evolução arquitetônica",
		},
	},
}
